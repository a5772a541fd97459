package scheduler_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/okian/mlbsim/internal/adapters/scheduler"
	"github.com/okian/mlbsim/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu     sync.Mutex
	calls  []int
	forced bool
	fail   map[int]bool
}

func (r *recorder) Get(_ context.Context, season int, force bool) (roster.BaseState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, season)
	r.forced = force
	if r.fail[season] {
		return nil, errors.New("upstream down")
	}
	return roster.BaseState{}, nil
}

func (r *recorder) seasons() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]int(nil), r.calls...)
	sort.Ints(out)
	return out
}

func TestWarmerRun(t *testing.T) {
	Convey("Given a warmer over three seasons", t, func() {
		rec := &recorder{fail: map[int]bool{}}
		w := scheduler.NewWarmer(rec, []int{2023, 2024, 2025}, scheduler.WithConcurrency(2))
		ctx := context.Background()

		Convey("When every refresh succeeds", func() {
			err := w.Run(ctx)

			Convey("Then each season is force-loaded once", func() {
				So(err, ShouldBeNil)
				So(rec.seasons(), ShouldResemble, []int{2023, 2024, 2025})
				So(rec.forced, ShouldBeTrue)
			})
		})

		Convey("When one season fails", func() {
			rec.fail[2024] = true
			err := w.Run(ctx)

			Convey("Then the others are still refreshed and the failure is reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "2024")
				So(rec.seasons(), ShouldResemble, []int{2023, 2024, 2025})
			})
		})
	})
}

func TestWarmerSchedule(t *testing.T) {
	Convey("Given a warmer with a one-second schedule", t, func() {
		rec := &recorder{fail: map[int]bool{}}
		w := scheduler.NewWarmer(rec, []int{2025}, scheduler.WithSchedule("@every 1s"))
		ctx := context.Background()

		So(w.Start(ctx), ShouldBeNil)
		So(w.Start(ctx), ShouldBeNil)

		Convey("Then the job fires and Stop returns", func() {
			deadline := time.Now().Add(5 * time.Second)
			for len(rec.seasons()) == 0 && time.Now().Before(deadline) {
				time.Sleep(50 * time.Millisecond)
			}
			So(rec.seasons(), ShouldNotBeEmpty)

			stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			So(w.Stop(stopCtx), ShouldBeNil)
			So(w.Stop(stopCtx), ShouldBeNil)
		})
	})

	Convey("Given an invalid schedule", t, func() {
		w := scheduler.NewWarmer(&recorder{}, []int{2025}, scheduler.WithSchedule("every tuesday"))
		So(w.Start(context.Background()), ShouldNotBeNil)
	})
}
