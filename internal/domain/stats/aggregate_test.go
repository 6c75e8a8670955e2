package stats_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/okian/kudos/internal/domain/record"
	"github.com/okian/kudos/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(msg, award, recipient, nominator string) record.Record {
	return record.Record{Message: msg, AwardTitle: award, RecipientTitle: recipient, NominatorTitle: nominator}
}

func TestAggregate_Interactions(t *testing.T) {
	Convey("Given two engineers recognizing each other", t, func() {
		records := []record.Record{
			rec("hi", "Star", "Eng I", "Eng II"),
			rec("hi", "Star", "Eng II", "Eng I"),
		}

		rep := stats.Aggregate(records)

		Convey("Then both directions count as one reciprocal pair", func() {
			So(rep.Interactions.UniquePairs, ShouldEqual, 2)
			So(rep.Interactions.BidirectionalPairs, ShouldEqual, 1)
			So(rep.Interactions.SelfRecognitionCount, ShouldEqual, 0)
			So(rep.Interactions.Total, ShouldEqual, 2)
		})
	})

	Convey("Given repeated, self and one-sided pairs", t, func() {
		records := []record.Record{
			rec("a", "Star", "Lead", "Manager"),
			rec("b", "Star", "Lead", "Manager"),
			rec("c", "Star", "Lead", "Lead"),
			rec("d", "Star", "Analyst", "Manager"),
			rec("e", "Star", "Manager", "Analyst"),
			rec("f", "Star", "", "Manager"),
			rec("g", "Star", "Analyst", ""),
		}

		rep := stats.Aggregate(records, stats.WithTopPairs(2))

		Convey("Then records missing a title form no interaction", func() {
			So(rep.Interactions.Total, ShouldEqual, 5)
		})

		Convey("Then pairs are keyed by ordered titles", func() {
			So(rep.Interactions.UniquePairs, ShouldEqual, 4)
			So(rep.Interactions.SelfRecognitionCount, ShouldEqual, 1)
			So(rep.Interactions.BidirectionalPairs, ShouldEqual, 1)
		})

		Convey("Then pairs are ranked by count with first-seen ties", func() {
			So(rep.Interactions.Pairs[0], ShouldResemble, stats.Pair{Nominator: "Manager", Recipient: "Lead", Count: 2})
			So(rep.Interactions.Pairs[1].IsSelf(), ShouldBeTrue)
			So(rep.Interactions.TopPairs, ShouldHaveLength, 2)
		})
	})

	Convey("Given random interaction data", t, func() {
		rng := rand.New(rand.NewSource(7))
		titles := []string{"A", "B", "C", "D", "E", "F"}

		Convey("Then reciprocal pairs never exceed half the unique pairs", func() {
			for trial := 0; trial < 50; trial++ {
				var records []record.Record
				n := rng.Intn(40) + 1
				for i := 0; i < n; i++ {
					records = append(records, rec("m", "Star",
						titles[rng.Intn(len(titles))], titles[rng.Intn(len(titles))]))
				}
				rep := stats.Aggregate(records)
				So(rep.Interactions.BidirectionalPairs, ShouldBeLessThanOrEqualTo, rep.Interactions.UniquePairs/2)
			}
		})
	})
}

func TestAggregate_Messages(t *testing.T) {
	Convey("Given messages including a whitespace-only one", t, func() {
		records, err := record.ParseString("message,award_title,recipient_title,nominator_title\n" +
			"   ,Star,A,B\n" +
			"one two,Star,A,B\n" +
			"one two three four,Star,A,B\n")
		So(err, ShouldBeNil)

		rep := stats.Aggregate(records)

		Convey("Then the blank message counts as null and is excluded from lengths", func() {
			So(rep.NullCounts.Message, ShouldEqual, 1)
			So(rep.MessageLength.Count, ShouldEqual, 2)
			So(rep.MessageLength.Min, ShouldEqual, 7.0)
			So(rep.MessageLength.Max, ShouldEqual, 18.0)
			So(rep.WordCount.Mean, ShouldEqual, 3.0)
			So(rep.WordCount.StdDev, ShouldEqual, 1.0)
			So(rep.WordCount.P50, ShouldEqual, 3.0)
		})
	})

	Convey("Given many messages of increasing length", t, func() {
		var records []record.Record
		for i := 1; i <= 8; i++ {
			records = append(records, rec(strings.Repeat("x", i*30), "Star", "A", "B"))
		}

		rep := stats.Aggregate(records)

		Convey("Then five shortest are kept in ascending order", func() {
			So(rep.ShortestMessages, ShouldHaveLength, 5)
			So(rep.ShortestMessages[0].Length, ShouldEqual, 30)
			So(rep.ShortestMessages[4].Length, ShouldEqual, 150)
			So(rep.ShortestMessages[0].Truncated, ShouldBeFalse)
		})

		Convey("Then longest previews are cut at 110 runes with an ellipsis", func() {
			So(rep.LongestMessages, ShouldHaveLength, 5)
			So(rep.LongestMessages[0].Length, ShouldEqual, 240)
			So(rep.LongestMessages[0].Truncated, ShouldBeTrue)
			So(rep.LongestMessages[0].Text, ShouldEqual, strings.Repeat("x", 110)+stats.Ellipsis)
		})

		Convey("Then the distribution reflects the order statistics", func() {
			So(rep.MessageLength.Min, ShouldEqual, 30.0)
			So(rep.MessageLength.Max, ShouldEqual, 240.0)
			So(rep.MessageLength.P50, ShouldEqual, 135.0)
			So(rep.MessageLength.Mean, ShouldEqual, 135.0)
		})
	})

	Convey("Given multi-byte messages", t, func() {
		rep := stats.Aggregate([]record.Record{rec("héllo wörld", "Star", "A", "B")})

		Convey("Then lengths count characters, not bytes", func() {
			So(rep.MessageLength.Max, ShouldEqual, 11.0)
		})
	})
}

func TestAggregate_Titles(t *testing.T) {
	Convey("Given a larger title population", t, func() {
		var records []record.Record
		for i := 0; i < 20; i++ {
			for j := 0; j <= i; j++ {
				records = append(records, rec("m", "Star", fmt.Sprintf("R%02d", i), fmt.Sprintf("N%02d", i%4)))
			}
		}

		rep := stats.Aggregate(records, stats.WithTopTitles(15))

		Convey("Then unique counts and top lists are reported", func() {
			So(rep.UniqueRecipientTitles, ShouldEqual, 20)
			So(rep.UniqueNominatorTitles, ShouldEqual, 4)
			So(rep.UniqueAwardTitles, ShouldEqual, 1)
			So(rep.TopRecipientTitles, ShouldHaveLength, 15)
			So(rep.TopRecipientTitles[0].Value, ShouldEqual, "R19")
			So(rep.TopNominatorTitles, ShouldHaveLength, 4)
			So(rep.RecipientTitles, ShouldHaveLength, 20)
		})

		Convey("Then null counts stay at zero", func() {
			So(rep.NullCounts, ShouldResemble, stats.NullCounts{})
		})
	})
}
