package feedback_test

import (
	"strings"
	"testing"

	feedback "github.com/Nagaurav/MockInterview1/internal/domain/feedback"
	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSynthesizerBanding(t *testing.T) {
	Convey("Given a synthesizer with default thresholds", t, func() {
		synth := feedback.New()

		Convey("When eye contact is low", func() {
			msgs := synth.Generate(map[model.Kind]float64{model.KindEyeContact: 65})
			So(msgs, ShouldHaveLength, 1)
			So(strings.ToLower(msgs[0]), ShouldContainSubstring, "eye contact")
			So(strings.ToLower(msgs[0]), ShouldContainSubstring, "try")
		})

		Convey("When eye contact is excellent", func() {
			msgs := synth.Generate(map[model.Kind]float64{model.KindEyeContact: 95})
			So(msgs, ShouldHaveLength, 1)
			So(strings.ToLower(msgs[0]), ShouldContainSubstring, "excellent eye contact")
		})

		Convey("When eye contact sits inside the silent band", func() {
			msgs := synth.Generate(map[model.Kind]float64{model.KindEyeContact: 80})
			So(msgs, ShouldBeEmpty)
		})

		Convey("When the score sits exactly on a band edge", func() {
			// 70 is silent, 90 is a commendation.
			So(synth.Generate(map[model.Kind]float64{model.KindClarity: 70}), ShouldBeEmpty)
			msgs := synth.Generate(map[model.Kind]float64{model.KindClarity: 90})
			So(msgs, ShouldHaveLength, 1)
			So(msgs[0], ShouldContainSubstring, "clear")
		})
	})
}

func TestSynthesizerOrdering(t *testing.T) {
	Convey("Given scores for every metric", t, func() {
		synth := feedback.New()
		scores := map[model.Kind]float64{
			model.KindEngagement: 50,
			model.KindConfidence: 95,
			model.KindClarity:    40,
			model.KindEyeContact: 99,
			// Kinds outside the narration set are ignored.
			model.KindResponseQuality: 10,
		}

		Convey("Then messages follow the fixed emission order", func() {
			msgs := synth.Generate(scores)
			So(msgs, ShouldHaveLength, 4)
			So(strings.ToLower(msgs[0]), ShouldContainSubstring, "eye contact")
			So(strings.ToLower(msgs[1]), ShouldContainSubstring, "clearly")
			So(strings.ToLower(msgs[2]), ShouldContainSubstring, "confidence")
			So(strings.ToLower(msgs[3]), ShouldContainSubstring, "engagement")
		})

		Convey("Then repeated generation is stable", func() {
			first := synth.Generate(scores)
			for i := 0; i < 20; i++ {
				So(synth.Generate(scores), ShouldResemble, first)
			}
		})
	})
}

func TestSynthesizerCustomThresholds(t *testing.T) {
	Convey("Given tightened thresholds", t, func() {
		synth := feedback.New(feedback.WithThresholds(80, 95))

		Convey("Then the bands move accordingly", func() {
			msgs := synth.Generate(map[model.Kind]float64{model.KindConfidence: 75})
			So(msgs, ShouldHaveLength, 1)
			So(strings.ToLower(msgs[0]), ShouldContainSubstring, "confidence")

			So(synth.Generate(map[model.Kind]float64{model.KindConfidence: 92}), ShouldBeEmpty)
		})

		Convey("And invalid thresholds fall back to defaults", func() {
			bad := feedback.New(feedback.WithThresholds(90, 50))
			msgs := bad.Generate(map[model.Kind]float64{model.KindConfidence: 92})
			So(msgs, ShouldHaveLength, 1)
		})
	})
}
