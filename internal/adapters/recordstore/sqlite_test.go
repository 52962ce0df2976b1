package recordstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	recordstore "github.com/Nagaurav/MockInterview1/internal/adapters/recordstore"
	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store in a temp directory", t, func() {
		path := filepath.Join(t.TempDir(), "records.db")
		store, err := recordstore.OpenSQLite(path)
		So(err, ShouldBeNil)
		defer store.Close()

		ctx := context.Background()
		base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

		Convey("When interviews and feedback are written", func() {
			So(store.PutInterview(ctx, interview("a", "u1", 50, base)), ShouldBeNil)
			So(store.PutInterview(ctx, interview("b", "u1", 70, base.AddDate(0, 0, 3))), ShouldBeNil)
			So(store.PutFeedback(ctx, model.FeedbackBundle{
				InterviewID: "a",
				UserID:      "u1",
				Scores: map[model.Kind]float64{
					model.KindClarity:    88,
					model.KindEyeContact: 45,
				},
				Feedback:  []string{"Try to maintain more consistent eye contact with the camera"},
				CreatedAt: base,
			}), ShouldBeNil)

			Convey("Then ListRecords joins rows ascending with bundles", func() {
				records, err := store.ListRecords(ctx, "u1", time.Time{})
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].Interview.ID, ShouldEqual, "a")
				So(records[0].Feedback, ShouldHaveLength, 1)
				v, ok := records[0].Feedback[0].Score(model.KindClarity)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 88)
				So(records[1].Feedback, ShouldBeEmpty)
			})

			Convey("Then the window filter applies to interview creation time", func() {
				records, err := store.ListRecords(ctx, "u1", base.AddDate(0, 0, 1))
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Interview.ID, ShouldEqual, "b")
			})

			Convey("Then a nil score round-trips as absent", func() {
				So(store.PutInterview(ctx, model.Interview{
					ID: "c", UserID: "u1", Type: "behavioral", CreatedAt: base.AddDate(0, 0, 5),
				}), ShouldBeNil)
				records, err := store.ListRecords(ctx, "u1", time.Time{})
				So(err, ShouldBeNil)
				So(records[2].Interview.Score, ShouldBeNil)
			})
		})

		Convey("When feedback references an unknown interview", func() {
			err := store.PutFeedback(ctx, model.FeedbackBundle{InterviewID: "missing", UserID: "u1"})
			So(err, ShouldEqual, recordstore.ErrNotFound)
		})

		Convey("When an interview is deleted", func() {
			So(store.PutInterview(ctx, interview("a", "u1", 50, base)), ShouldBeNil)
			So(store.DeleteInterview(ctx, "u1", "a"), ShouldBeNil)
			So(store.DeleteInterview(ctx, "u1", "a"), ShouldEqual, recordstore.ErrNotFound)
		})

		Convey("When a watcher is attached", func() {
			ch, cancel, err := store.Watch(ctx, "u1")
			So(err, ShouldBeNil)
			defer cancel()

			So(store.PutInterview(ctx, interview("a", "u1", 50, base)), ShouldBeNil)

			select {
			case change := <-ch:
				So(change.UserID, ShouldEqual, "u1")
			case <-time.After(time.Second):
				So("timed out waiting for change", ShouldBeEmpty)
			}
		})
	})
}
