package handler

import (
	"errors"
	"testing"

	"github.com/buildco/cms-api/internal/core/domain"
)

func TestValidator_DetailsUseJSONPaths(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&serviceRequest{contentMeta: contentMeta{Order: -1}})

	var de *domain.Error
	if !errors.As(err, &de) || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := map[string]string{
		"order": "order must be at least 0",
		"slug":  "slug is required",
		"title": "title is required",
	}
	for field, msg := range want {
		if de.Details[field] != msg {
			t.Fatalf("details[%q] = %q, want %q (all: %+v)", field, de.Details[field], msg, de.Details)
		}
	}
}

func TestValidator_NestedPath(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&setProjectsRequest{ProjectIDs: []string{"65f1c2a9e4b0a1b2c3d4e5f6", "nope"}})

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if de.Details["projectIds[1]"] != "projectIds[1] must be a valid id" {
		t.Fatalf("unexpected details %+v", de.Details)
	}
}

func TestValidator_Passes(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&loginRequest{Email: "a@example.com", Password: "x"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}
