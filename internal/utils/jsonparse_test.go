package utils

import "testing"

func TestParseModelJSON(t *testing.T) {
	type criteria struct {
		City     string  `json:"city"`
		MaxPrice float64 `json:"max_price"`
	}

	tests := []struct {
		name     string
		input    string
		wantCity string
		wantErr  bool
	}{
		{
			name:     "pure JSON",
			input:    `{"city": "Tel Aviv", "max_price": 2000000}`,
			wantCity: "Tel Aviv",
		},
		{
			name:     "markdown json fence",
			input:    "```json\n{\"city\": \"Haifa\", \"max_price\": 1500000}\n```",
			wantCity: "Haifa",
		},
		{
			name:     "plain fence",
			input:    "```\n{\"city\": \"Jerusalem\", \"max_price\": 0}\n```",
			wantCity: "Jerusalem",
		},
		{
			name:     "surrounding prose",
			input:    "Here are the extracted filters:\n{\"city\": \"Eilat\", \"max_price\": 900000}\nLet me know if you need anything else.",
			wantCity: "Eilat",
		},
		{
			name:     "nested braces inside strings",
			input:    `reply: {"city": "a {weird} name", "max_price": 1}`,
			wantCity: "a {weird} name",
		},
		{
			name:    "no JSON at all",
			input:   "Sorry, I could not process that question.",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got criteria
			err := ParseModelJSON(tt.input, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.City != tt.wantCity {
				t.Errorf("city = %q, want %q", got.City, tt.wantCity)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `before {"a": 1} after`, `{"a": 1}`},
		{"nested", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"escaped quote", `{"a": "say \"hi\" {ok}"}`, `{"a": "say \"hi\" {ok}"}`},
		{"unbalanced", `{"a": 1`, ""},
		{"none", "no braces here", ""},
		{"first of several", `{"a": 1} {"b": 2}`, `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
