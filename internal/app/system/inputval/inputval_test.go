package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"admin@localhost", true},
		{"  user@example.com  ", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"user@.example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://esl.example", true},
		{"http://localhost:8080/path", true},
		{"  https://example.com  ", true},
		{"", false},
		{"ftp://example.com", false},
		{"example.com", false},
		{"javascript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidHTTPURL(tt.url); got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidImageRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://cdn.example/logo.png", true},
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"DATA:image/jpeg;base64,/9j/", true},
		{"data:image/png", false},
		{"data:image/webp;base64,UklGRg==", true},
		{"data:image/gif;base64,R0lGODlh", true},
		{"data:image/png,rawbytes", false},
		{"data:image/svg+xml;base64,PHN2Zz4=", false},
		{`data:image/png;base64,iVBO" onerror="alert(1)`, false},
		{"data:text/html,<b>x</b>", false},
		{"logo.png", false},
	}

	for _, tt := range tests {
		if got := IsValidImageRef(tt.ref); got != tt.want {
			t.Errorf("IsValidImageRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"  507f1f77bcf86cd799439011  ", true},
		{"507f1f77bcf86cd79943901", false},
		{"507f1f77bcf86cd79943901g", false},
		{"", false},
		{"42", false},
	}

	for _, tt := range tests {
		if got := IsValidObjectID(tt.id); got != tt.want {
			t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	type submission struct {
		Name     string `validate:"required,max=10" label:"Resource name"`
		Category string `validate:"required,pendingcategory" label:"Category"`
		Website  string `validate:"omitempty,httpurl" label:"Website"`
		Email    string `validate:"omitempty,emailaddr" label:"Email"`
	}

	tests := []struct {
		name      string
		input     submission
		wantCount int
		wantFirst string
	}{
		{
			name:  "valid",
			input: submission{Name: "ESL Class", Category: "Education/ESL", Website: "https://esl.example"},
		},
		{
			name:      "missing name",
			input:     submission{Category: "Transportation"},
			wantCount: 1,
			wantFirst: "Resource name is required.",
		},
		{
			name:      "name too long",
			input:     submission{Name: "A Very Long Resource Name", Category: "Transportation"},
			wantCount: 1,
			wantFirst: "Resource name must be at most 10 characters.",
		},
		{
			name:      "published category is not a submission category",
			input:     submission{Name: "Bus", Category: "Transit"},
			wantCount: 1,
			wantFirst: "Please choose a category from the list.",
		},
		{
			name:      "bad website and email",
			input:     submission{Name: "Bus", Category: "Transportation", Website: "bus.example", Email: "nope"},
			wantCount: 2,
			wantFirst: "Website must be a valid http(s) URL.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.input)
			if got := len(res.Errors); got != tt.wantCount {
				t.Fatalf("error count = %d, want %d (%s)", got, tt.wantCount, res.All())
			}
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_PublishedCategory(t *testing.T) {
	type edit struct {
		Title    string `validate:"required" label:"Title"`
		Category string `validate:"required,category" label:"Category"`
		Image    string `validate:"omitempty,imageref" label:"Image"`
	}

	if res := Validate(edit{Title: "Pantry", Category: "Food", Image: "data:image/gif;base64,R0lGOD=="}); res.HasErrors() {
		t.Errorf("valid edit has errors: %s", res.All())
	}
	if res := Validate(edit{Title: "Pantry", Category: "Essential Services"}); !res.HasErrors() {
		t.Error("submission category should not validate as a published category")
	}
}

func TestResult(t *testing.T) {
	var empty Result
	if empty.HasErrors() || empty.First() != "" || empty.All() != "" {
		t.Error("zero Result should report no errors")
	}

	r := &Result{Errors: []FieldError{{Message: "One"}, {Message: "Two"}}}
	if r.First() != "One" {
		t.Errorf("First() = %q, want %q", r.First(), "One")
	}
	if r.All() != "One; Two" {
		t.Errorf("All() = %q, want %q", r.All(), "One; Two")
	}
}
