package action

import "testing"

func TestPointsFor(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindCreateReport, 10},
		{KindFollowReport, 2},
		{KindCommentReport, 2},
		{KindMarkInProgress, 5},
		{KindMarkClosed, 5},
		{KindVerifyClosed, 5},
		{Kind("SOMETHING_ELSE"), 0},
	}

	for _, c := range cases {
		if got := PointsFor(c.kind); got != c.want {
			t.Errorf("PointsFor(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
}
