package filter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/s0up4200/filmdesk/sakila"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasFeature("Trailers")`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `has(Title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "non boolean",
			expression: `1 + 2`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Rating == "PG" and Length < 100 and Rate > 2.0`,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if filter == nil {
				t.Errorf("expected filter but got nil")
			}
		})
	}
}

func TestFilmFilters(t *testing.T) {
	film := sakila.Film{
		ID:              7,
		Title:           "Inception",
		ReleaseYear:     2006,
		Rating:          "PG-13",
		CategoryName:    "Sci-Fi",
		Length:          148,
		RentalRate:      "4.99",
		SpecialFeatures: "Trailers,Behind the Scenes",
		Inventory:       []sakila.Inventory{{StoreID: 1, AvailableCopies: 2}, {StoreID: 2}},
	}

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{name: "title contains", expression: `has(Title, "incep")`, expected: true},
		{name: "contains operator", expression: `lower(Title) contains "incep"`, expected: true},
		{name: "title suffix", expression: `hasSuffix(Title, "TION")`, expected: true},
		{name: "genre equality", expression: `Genre == "Sci-Fi"`, expected: true},
		{name: "length comparison", expression: `Length > 150`, expected: false},
		{name: "rate comparison", expression: `Rate >= 4.99`, expected: true},
		{name: "feature", expression: `hasFeature("behind the scenes")`, expected: true},
		{name: "missing feature", expression: `hasFeature("Commentaries")`, expected: false},
		{name: "availability", expression: `Available == 2`, expected: true},
		{name: "membership", expression: `Rating in ["G", "PG", "PG-13"]`, expected: true},
		{name: "negation", expression: `not hasPrefix(Title, "a")`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Compile(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}

			result, err := filter.Match(FilmEnv(film))
			if err != nil {
				t.Fatalf("evaluation failed: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, result, tt.expression)
			}
		})
	}
}

func TestApplyCustomers(t *testing.T) {
	customers := make([]sakila.Customer, 10)
	for i := range customers {
		customers[i] = sakila.Customer{
			ID:        i + 1,
			FirstName: fmt.Sprintf("First%d", i+1),
			LastName:  "Smith",
			Email:     fmt.Sprintf("c%d@example.org", i+1),
			Active:    sakila.Flag(i%2 == 0),
			StoreID:   1 + i%2,
		}
	}

	filter, err := Compile(`Active and Store == 1 and ID > 2`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	matches, err := Apply(filter, customers, CustomerEnv)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	var got []int
	for _, c := range matches {
		got = append(got, c.ID)
	}
	want := []int{3, 5, 7, 9}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v but got %v", want, got)
	}

	all, err := Apply(nil, customers, CustomerEnv)
	if err != nil || len(all) != len(customers) {
		t.Errorf("nil filter should match every row, got %d rows (err %v)", len(all), err)
	}
}

func TestApplyEvaluationError(t *testing.T) {
	filter, err := Compile(`Missing > 3`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	_, err = Apply(filter, []sakila.Actor{{ID: 1, FirstName: "Nick", LastName: "Wahlberg"}}, ActorEnv)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %v", err)
	}
	if evalErr.Row != "Nick Wahlberg" {
		t.Errorf("expected row name in error, got %q", evalErr.Row)
	}
}
