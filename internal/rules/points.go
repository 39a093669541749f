package rules

import (
	"sort"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

// Point awards.
const (
	PointsFeeding        = 5
	PointsPetting        = 2
	PointsLocationUpdate = 3
	PointsReportStray    = 10
)

// PointsFor returns the award for logging an interaction of type t.
func PointsFor(t models.InteractionType) int {
	switch t {
	case models.InteractionFeeding:
		return PointsFeeding
	case models.InteractionPetting:
		return PointsPetting
	case models.InteractionLocationUpdate:
		return PointsLocationUpdate
	}
	return 0
}

// RankEligible reports whether u appears on the leaderboard and counts toward ranks.
func RankEligible(u models.User) bool {
	return u.UsernameVerified && !u.IsHidden && u.IsActive && !u.Role.Privileged() && !u.IsSuperAdmin
}

// Unranked reports whether u never receives a rank. Only privileged accounts are
// unranked; an unverified or hidden student still sees where their points would place them.
func Unranked(u models.User) bool {
	return u.Role.Privileged() || u.IsSuperAdmin
}

// RankFromHigher turns the number of eligible users with strictly more points into a rank.
func RankFromHigher(higher int) int {
	return higher + 1
}

// RankOf computes the rank of points among population. Ties share a rank.
func RankOf(points int, population []models.User) int {
	higher := 0
	for _, u := range population {
		if RankEligible(u) && u.Points > points {
			higher++
		}
	}
	return RankFromHigher(higher)
}

// AssignRanks orders entries by points descending and fills competition ranks.
func AssignRanks(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
