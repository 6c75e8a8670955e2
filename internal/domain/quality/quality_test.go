package quality_test

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/okian/kudos/internal/domain/quality"
	. "github.com/smartystreets/goconvey/convey"
)

func batch(i int) *int { return &i }

func classify(category, subcategory string) quality.Classification {
	return quality.Classification{Category: category, Subcategory: subcategory}
}

func letterTaxonomy() *quality.Taxonomy {
	return &quality.Taxonomy{Categories: []quality.Category{
		{ID: "A", Name: "Recognition", Subcategories: []quality.Subcategory{{ID: "A1"}, {ID: "A2"}}},
		{ID: "B", Name: "Teamwork", Subcategories: []quality.Subcategory{{ID: "B1"}}},
		{ID: "C", Name: "Delivery"},
	}}
}

func TestResolveTaxonomy(t *testing.T) {
	Convey("Given no taxonomy", t, func() {
		tax, source, err := quality.ResolveTaxonomy("run-a", nil)

		Convey("Then the default six categories are used silently", func() {
			So(err, ShouldBeNil)
			So(source, ShouldEqual, quality.SourceDefault)
			So(len(tax.Categories), ShouldEqual, 6)
			So(tax.SubcategoryCount(), ShouldEqual, 0)
		})
	})

	Convey("Given a taxonomy with only blank ids", t, func() {
		_, source, err := quality.ResolveTaxonomy("run-a", &quality.Taxonomy{Categories: []quality.Category{{ID: "  "}}})

		Convey("Then the default is used and a mismatch error is returned", func() {
			So(source, ShouldEqual, quality.SourceDefault)
			So(errors.Is(err, quality.ErrTaxonomyMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "run-a")
		})
	})

	Convey("Given a usable taxonomy", t, func() {
		tax, source, err := quality.ResolveTaxonomy("", letterTaxonomy())

		Convey("Then it is returned unchanged", func() {
			So(err, ShouldBeNil)
			So(source, ShouldEqual, quality.SourceProvided)
			So(tax.SubcategoryCount(), ShouldEqual, 3)
		})
	})
}

func TestSubcategoryFormat(t *testing.T) {
	Convey("Given single-letter category ids", t, func() {
		v := quality.NewValidator(*letterTaxonomy())

		cases := []struct{ value, want string }{
			{"A1", quality.FormatCorrect},
			{" B1 ", quality.FormatCorrect},
			{"", quality.FormatEmpty},
			{"None", quality.FormatEmpty},
			{"N/A", quality.FormatEmpty},
			{"nan", quality.FormatEmpty},
			{"-", quality.FormatEmpty},
			{"X", quality.FormatLetterOnly},
			{"Z9", quality.FormatLetterNumber},
			{"A3b", quality.FormatAltPrefix},
			{"q", quality.FormatLowercase},
			{"???", quality.FormatOther},
		}
		for _, tc := range cases {
			Convey(fmt.Sprintf("Then %q is %s", tc.value, tc.want), func() {
				So(v.SubcategoryFormat("A", tc.value), ShouldEqual, tc.want)
			})
		}
	})

	Convey("Given multi-character category ids", t, func() {
		v := quality.NewValidator(quality.Taxonomy{Categories: []quality.Category{
			{ID: "CAT", Subcategories: []quality.Subcategory{{ID: "CAT-1"}}},
			{ID: "TEAM", Subcategories: []quality.Subcategory{{ID: "TEAM-1"}}},
			{ID: "MISC"},
		}})

		Convey("Then a bare category id is flagged", func() {
			So(v.SubcategoryFormat("CAT", "TEAM"), ShouldEqual, quality.FormatCategoryAsSub)
			So(v.SubcategoryFormat("CAT", "CAT"), ShouldEqual, quality.FormatCategoryAsSub)
		})

		Convey("Then another family's prefix is flagged", func() {
			So(v.SubcategoryFormat("CAT", "TEAM-9"), ShouldEqual, quality.FormatWrongPrefix)
		})

		Convey("Then the category's own prefix is unrecognized", func() {
			So(v.SubcategoryFormat("CAT", "CAT-9"), ShouldEqual, quality.FormatOther)
		})

		Convey("Then a category without subcategories is no family", func() {
			So(v.SubcategoryFormat("CAT", "MISC"), ShouldEqual, quality.FormatOther)
		})
	})
}

func TestAnalyze(t *testing.T) {
	Convey("Given ten classifications split across valid and invalid categories", t, func() {
		var cs []quality.Classification
		for i := 0; i < 5; i++ {
			cs = append(cs, classify("A", "A1"))
		}
		for i := 0; i < 3; i++ {
			cs = append(cs, classify(" B ", "B"))
		}
		cs = append(cs, classify("Z", ""), classify("", "q"))
		set := quality.ClassificationSet{
			Metadata:        quality.Metadata{TotalMessages: 20, TotalClassified: 10},
			Classifications: cs,
		}

		a := quality.Analyze(letterTaxonomy(), set, quality.WithRun("baseline"))

		Convey("Then counts and rates are reported", func() {
			So(a.Run, ShouldEqual, "baseline")
			So(a.TaxonomySource, ShouldEqual, quality.SourceProvided)
			So(a.CategoriesDefined, ShouldEqual, 3)
			So(a.SubcategoriesDefined, ShouldEqual, 3)
			So(a.SuccessRate, ShouldEqual, 50.0)
			So(a.ValidCount, ShouldEqual, 8)
			So(a.MalformedCount, ShouldEqual, 2)
			So(a.MalformedRate, ShouldEqual, 20.0)
			So(a.Warnings, ShouldBeEmpty)
		})

		Convey("Then the distribution is sorted by count with invalid ids bucketed", func() {
			So(len(a.Distribution), ShouldEqual, 4)
			So(a.Distribution[0], ShouldResemble, quality.CategoryBucket{Category: "A", Name: "Recognition", Count: 5, Percent: 50, Valid: true})
			So(a.Distribution[1].Category, ShouldEqual, "B")
			So(a.Distribution[1].Percent, ShouldEqual, 30.0)
			So(a.Distribution[2].Category, ShouldEqual, "Z")
			So(a.Distribution[2].Valid, ShouldBeFalse)
			So(a.Distribution[3].Category, ShouldEqual, quality.EmptyCategory)
			So(a.Distribution[3].Valid, ShouldBeFalse)
		})

		Convey("Then subcategory formats follow the cascade order", func() {
			So(len(a.SubcategoryFormats), ShouldEqual, 4)
			So(a.SubcategoryFormats[0].Format, ShouldEqual, quality.FormatCorrect)
			So(a.SubcategoryFormats[0].Count, ShouldEqual, 5)
			So(a.SubcategoryFormats[0].Examples, ShouldResemble, []string{"A1"})
			So(a.SubcategoryFormats[1].Format, ShouldEqual, quality.FormatEmpty)
			So(a.SubcategoryFormats[2].Format, ShouldEqual, quality.FormatLetterOnly)
			So(a.SubcategoryFormats[2].Count, ShouldEqual, 3)
			So(a.SubcategoryFormats[3].Format, ShouldEqual, quality.FormatLowercase)
			So(a.FormatConsistency, ShouldEqual, 50.0)
		})

		Convey("Then the most over-represented category carries the bias", func() {
			So(a.Bias.Category, ShouldEqual, "A")
			So(a.Bias.Count, ShouldEqual, 5)
			So(a.Bias.Expected, ShouldEqual, 3.3)
			So(a.Bias.Score, ShouldAlmostEqual, 50, 1e-9)
		})
	})

	Convey("Given two categories and ten classifications all in A", t, func() {
		tax := &quality.Taxonomy{Categories: []quality.Category{{ID: "A"}, {ID: "B"}}}
		var cs []quality.Classification
		for i := 0; i < 10; i++ {
			cs = append(cs, classify("A", ""))
		}

		a := quality.Analyze(tax, quality.ClassificationSet{Classifications: cs})

		Convey("Then the bias score is 100 percent", func() {
			So(a.Bias.Expected, ShouldEqual, 5.0)
			So(a.Bias.Score, ShouldEqual, 100.0)
		})

		Convey("Then missing metadata counts fall back to the classification count", func() {
			So(a.TotalClassified, ShouldEqual, 10)
			So(a.TotalMessages, ShouldEqual, 10)
			So(a.SuccessRate, ShouldEqual, 100.0)
		})
	})

	Convey("Given tied categories", t, func() {
		tax := &quality.Taxonomy{Categories: []quality.Category{{ID: "B"}, {ID: "A"}}}
		cs := []quality.Classification{classify("A", ""), classify("B", "")}

		a := quality.Analyze(tax, quality.ClassificationSet{Classifications: cs})

		Convey("Then taxonomy order breaks the tie", func() {
			So(a.Bias.Category, ShouldEqual, "B")
			So(a.Bias.Score, ShouldEqual, 0.0)
		})
	})

	Convey("Given an empty taxonomy document", t, func() {
		a := quality.Analyze(&quality.Taxonomy{}, quality.ClassificationSet{
			Classifications: []quality.Classification{classify("F", "")},
		}, quality.WithRun("broken"))

		Convey("Then the default taxonomy is used with a warning", func() {
			So(a.TaxonomySource, ShouldEqual, quality.SourceDefault)
			So(a.ValidCount, ShouldEqual, 1)
			So(len(a.Warnings), ShouldEqual, 1)
			So(a.Warnings[0], ShouldContainSubstring, "broken")
		})
	})

	Convey("Given no classifications", t, func() {
		a := quality.Analyze(nil, quality.ClassificationSet{})

		Convey("Then every rate is zero", func() {
			So(a.SuccessRate, ShouldEqual, 0.0)
			So(a.MalformedRate, ShouldEqual, 0.0)
			So(a.FormatConsistency, ShouldEqual, 0.0)
			So(a.Distribution, ShouldBeEmpty)
			So(a.Bias, ShouldResemble, quality.Bias{})
			So(a.Batches.Missing, ShouldBeEmpty)
		})
	})
}

func TestBatchCoverage(t *testing.T) {
	Convey("Given 120 messages in batches of 50", t, func() {
		cs := []quality.Classification{
			{Batch: batch(0), Category: "A"},
			{Batch: batch(2), Category: "A"},
			{Batch: batch(2), Category: "A"},
			{Batch: batch(7), Category: "A"},
			{Category: "A"},
		}
		set := quality.ClassificationSet{
			Metadata:        quality.Metadata{TotalMessages: 120, BatchSize: 50},
			Classifications: cs,
		}

		a := quality.Analyze(nil, set)

		Convey("Then batch 1 is missing and batch 7 is out of range", func() {
			So(a.Batches.Expected, ShouldEqual, 3)
			So(a.Batches.Observed, ShouldEqual, 3)
			So(a.Batches.Missing, ShouldResemble, []int{1})
			So(a.Batches.OutOfRange, ShouldResemble, []int{7})
		})
	})

	Convey("Given metadata without a batch size", t, func() {
		set := quality.ClassificationSet{
			Metadata:        quality.Metadata{TotalMessages: 120},
			Classifications: []quality.Classification{{Batch: batch(0)}},
		}

		Convey("Then the default batch size applies", func() {
			a := quality.Analyze(nil, set)
			So(a.Batches.BatchSize, ShouldEqual, 50)
			So(a.Batches.Missing, ShouldResemble, []int{1, 2})
		})

		Convey("Then the configured default overrides it", func() {
			a := quality.Analyze(nil, set, quality.WithDefaultBatchSize(30))
			So(a.Batches.Expected, ShouldEqual, 4)
			So(a.Batches.Missing, ShouldResemble, []int{1, 2, 3})
		})
	})
}

func TestThemesAndCandidates(t *testing.T) {
	Convey("Given themes with mixed case and underscores", t, func() {
		cs := []quality.Classification{
			{Category: "A", Themes: []string{"Team_Work", " LEADERSHIP "}},
			{Category: "A", Themes: []string{"team work", ""}, NewCategory: "Mentoring"},
			{Category: "B", NewCategory: "Safety"},
			{Category: "B", NewCategory: "Safety"},
		}

		Convey("Then themes are normalized before counting", func() {
			a := quality.Analyze(nil, quality.ClassificationSet{Classifications: cs})
			So(a.Themes[0].Value, ShouldEqual, "team work")
			So(a.Themes[0].Count, ShouldEqual, 2)
			So(a.Themes.Count("leadership"), ShouldEqual, 1)
			So(len(a.Themes), ShouldEqual, 2)
		})

		Convey("Then proposed categories are counted without a candidate table", func() {
			a := quality.Analyze(nil, quality.ClassificationSet{Classifications: cs})
			So(a.CandidateCategories.Values(), ShouldResemble, []string{"Safety", "Mentoring"})
		})

		Convey("Then a declared candidate table wins", func() {
			a := quality.Analyze(nil, quality.ClassificationSet{
				Classifications:     cs,
				CandidateCategories: map[string]int{"Mentoring": 3, "Innovation": 3, "Safety": 5},
			})
			So(a.CandidateCategories.Values(), ShouldResemble, []string{"Safety", "Innovation", "Mentoring"})
		})
	})
}

func TestPercentagesSumToHundred(t *testing.T) {
	Convey("Given random classifications", t, func() {
		rng := rand.New(rand.NewSource(7))
		values := []string{"A", "B", "C", "Z", "", "A1", "B1", "x", "None"}
		for round := 0; round < 50; round++ {
			n := 1 + rng.Intn(40)
			cs := make([]quality.Classification, n)
			for i := range cs {
				cs[i] = classify(values[rng.Intn(len(values))], values[rng.Intn(len(values))])
			}
			a := quality.Analyze(letterTaxonomy(), quality.ClassificationSet{Classifications: cs})

			dist, formats := 0.0, 0.0
			for _, b := range a.Distribution {
				dist += b.Percent
			}
			for _, b := range a.SubcategoryFormats {
				formats += b.Percent
			}
			So(dist, ShouldAlmostEqual, 100, 1e-6)
			So(formats, ShouldAlmostEqual, 100, 1e-6)
			So(a.ValidCount+a.MalformedCount, ShouldEqual, n)
		}
	})
}

func TestDecode(t *testing.T) {
	Convey("Given a taxonomy wrapped under final_taxonomy", t, func() {
		doc := `
final_taxonomy:
  categories:
    - id: A
      name: Recognition
      subcategories:
        - id: A1
          name: Peer praise
`
		tax, err := quality.DecodeTaxonomy(strings.NewReader(doc))

		Convey("Then it is unwrapped", func() {
			So(err, ShouldBeNil)
			So(len(tax.Categories), ShouldEqual, 1)
			So(tax.Categories[0].Subcategories[0].ID, ShouldEqual, "A1")
		})
	})

	Convey("Given a JSON taxonomy with numeric ids", t, func() {
		tax, err := quality.DecodeTaxonomy(strings.NewReader(`{"categories": [{"id": 1, "name": "One", "subcategories": []}]}`))

		Convey("Then ids decode as strings", func() {
			So(err, ShouldBeNil)
			So(tax.Categories[0].ID, ShouldEqual, "1")
		})
	})

	Convey("Given a classification document", t, func() {
		doc := `{
  "metadata": {"total_messages": 3, "total_classified": 2, "batch_size": 2},
  "classifications": [
    {"batch": 0, "category": "A", "subcategory": null, "themes": ["team_work"]},
    {"category": "B", "subcategory": "B1", "new_category": "Safety"}
  ],
  "candidate_categories": {"Safety": 1}
}`
		set, err := quality.DecodeClassifications(strings.NewReader(doc))

		Convey("Then fields and optional values are decoded", func() {
			So(err, ShouldBeNil)
			So(set.Metadata.TotalMessages, ShouldEqual, 3)
			So(len(set.Classifications), ShouldEqual, 2)
			So(*set.Classifications[0].Batch, ShouldEqual, 0)
			So(set.Classifications[0].Subcategory, ShouldEqual, "")
			So(set.Classifications[1].Batch, ShouldBeNil)
			So(set.CandidateCategories["Safety"], ShouldEqual, 1)
		})
	})

	Convey("Given a run summary with extra keys", t, func() {
		doc := `{"pipeline": {"total_time_seconds": 12.5, "model": "x"}, "results": {"categories_discovered": 7, "notes": "ok"}}`
		s, err := quality.DecodeRunSummary(strings.NewReader(doc))

		Convey("Then known fields are decoded and the rest kept", func() {
			So(err, ShouldBeNil)
			So(s.Pipeline.TotalTimeSeconds, ShouldEqual, 12.5)
			So(*s.Results.CategoriesDiscovered, ShouldEqual, 7)
			So(s.Results.SubcategoriesDiscovered, ShouldBeNil)
			So(s.Results.Extra["notes"], ShouldEqual, "ok")
		})
	})

	Convey("Given JSON that only a JSON decoder reads correctly", t, func() {
		Convey("When a value uses the \\/ escape", func() {
			doc := `{"classifications": [{"category": "A", "subcategory": "A\/1"}]}`
			set, err := quality.DecodeClassifications(strings.NewReader(doc))

			Convey("Then the escape decodes to a slash", func() {
				So(err, ShouldBeNil)
				So(set.Classifications[0].Subcategory, ShouldEqual, "A/1")
			})
		})

		Convey("When a key is repeated", func() {
			doc := "\ufeff" + `{"metadata": {"batch_size": 10, "batch_size": 25}}`
			set, err := quality.DecodeClassifications(strings.NewReader(doc))

			Convey("Then the last value wins", func() {
				So(err, ShouldBeNil)
				So(set.Metadata.BatchSize, ShouldEqual, 25)
			})
		})

		Convey("When categories and ids are numbers", func() {
			doc := `{"classifications": [{"message_id": 17, "batch": 1, "category": 3, "subcategory": 3.1}]}`
			set, err := quality.DecodeClassifications(strings.NewReader(doc))

			Convey("Then they read as text", func() {
				So(err, ShouldBeNil)
				c := set.Classifications[0]
				So(c.MessageID, ShouldEqual, "17")
				So(c.Category, ShouldEqual, "3")
				So(c.Subcategory, ShouldEqual, "3.1")
				So(*c.Batch, ShouldEqual, 1)
			})
		})

		Convey("When a taxonomy is wrapped under final_taxonomy", func() {
			doc := `{"final_taxonomy": {"categories": [{"id": "A", "name": "Recognition", "subcategories": [{"id": 11, "name": "Peer\/praise"}]}]}}`
			tax, err := quality.DecodeTaxonomy(strings.NewReader(doc))

			Convey("Then it is unwrapped", func() {
				So(err, ShouldBeNil)
				So(tax.Categories[0].ID, ShouldEqual, "A")
				So(tax.Categories[0].Subcategories[0].ID, ShouldEqual, "11")
				So(tax.Categories[0].Subcategories[0].Name, ShouldEqual, "Peer/praise")
			})
		})
	})

	Convey("Given a broken document", t, func() {
		_, err := quality.DecodeClassifications(strings.NewReader("classifications: [unclosed"))

		Convey("Then a decode error is returned", func() {
			So(errors.Is(err, quality.ErrDecode), ShouldBeTrue)
		})
	})
}
