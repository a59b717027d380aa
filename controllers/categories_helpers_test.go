package controllers

import "testing"

func TestCategoryTranslationsFromForm(t *testing.T) {
	t.Run("parses and trims", func(t *testing.T) {
		got := categoryTranslationsFromForm(`[{"language":" en ","name":" Chairs ","description":"d"}]`)
		if len(got) != 1 {
			t.Fatalf("got %+v", got)
		}
		if got[0].Language != "en" || got[0].Name != "Chairs" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("drops entries without language or name", func(t *testing.T) {
		got := categoryTranslationsFromForm(`[
			{"language":"","name":"x"},
			{"language":"en","name":""},
			{"language":"de","name":"Stühle"}
		]`)
		if len(got) != 1 || got[0].Language != "de" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("first language wins on duplicates", func(t *testing.T) {
		got := categoryTranslationsFromForm(`[
			{"language":"en","name":"First"},
			{"language":"en","name":"Second"}
		]`)
		if len(got) != 1 || got[0].Name != "First" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("malformed json means no translations", func(t *testing.T) {
		if got := categoryTranslationsFromForm(`[{"language":`); len(got) != 0 {
			t.Fatalf("got %+v", got)
		}
	})
}
