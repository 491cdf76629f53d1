package validation

import (
	"testing"

	domainerrors "github.com/tsuji1/hep-reader-sub001/internal/errors"
)

type saveURLRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Language string `json:"language,omitempty" validate:"omitempty,max=10"`
}

type clipRect struct {
	X float64 `json:"x" validate:"gte=0,lte=1"`
	Y float64 `json:"y" validate:"gte=0,lte=1"`
	W float64 `json:"w" validate:"gte=0,lte=1"`
	H float64 `json:"h" validate:"gte=0,lte=1"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	if err := v.Validate(saveURLRequest{URL: "https://example.com/article"}); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
	if err := v.Validate(clipRect{X: 0.1, Y: 0.2, W: 0.5, H: 0.3}); err != nil {
		t.Errorf("valid rect rejected: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	v := New()

	err := v.Validate(saveURLRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if domainErr.Code != domainerrors.CodeValidation {
		t.Errorf("code: got %s, want %s", domainErr.Code, domainerrors.CodeValidation)
	}

	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details: got %T, want map[string]string", domainErr.Details)
	}
	if details["url"] != "is required" {
		t.Errorf("url message: got %q", details["url"])
	}
}

func TestValidate_RectOutOfRange(t *testing.T) {
	v := New()

	err := v.Validate(clipRect{X: 1.2, Y: 0, W: 0, H: 0})
	if err == nil {
		t.Fatal("expected validation error for x > 1")
	}

	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	details := domainErr.Details.(map[string]string)
	if details["x"] != "must be less than or equal to 1" {
		t.Errorf("x message: got %q", details["x"])
	}
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	v := New()

	err := v.Validate(saveURLRequest{URL: "not a url"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	domainerrors.As(err, &domainErr)
	details := domainErr.Details.(map[string]string)
	if _, ok := details["url"]; !ok {
		t.Errorf("expected json tag name 'url' in details, got %v", details)
	}
}
