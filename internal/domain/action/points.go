package action

// actionPoints is the fixed kind-to-points table. Values are policy
// constants, not configuration.
var actionPoints = map[Kind]int{
	KindCreateReport:   10,
	KindFollowReport:   2,
	KindCommentReport:  2,
	KindMarkInProgress: 5,
	KindMarkClosed:     5,
	KindVerifyClosed:   5,
}

// PointsFor returns the point value for a kind. Unknown kinds are worth
// zero and are still recorded.
func PointsFor(kind Kind) int {
	return actionPoints[kind]
}
