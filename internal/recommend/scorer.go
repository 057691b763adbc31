package recommend

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/steiner385/capacinator/internal/models"
)

// Heuristic scoring for rebalancing workloads: which assignments are
// easiest to take away from an over-utilized person, and which projects
// best fit an under-utilized one. Each factor is independently
// explainable; this is deliberately not a global optimizer.

const recentAssignmentWindow = 30 * 24 * time.Hour

type RemovalBand string

const (
	BandEasy     RemovalBand = "EASY"
	BandModerate RemovalBand = "MODERATE"
	BandKeep     RemovalBand = "KEEP"
)

func (b RemovalBand) Label() string {
	switch b {
	case BandEasy:
		return "Easy to Remove"
	case BandModerate:
		return "Moderate"
	default:
		return "Keep"
	}
}

type RemovalCandidate struct {
	Assignment models.Assignment `json:"assignment"`
	Score      float64           `json:"score"`
	Band       RemovalBand       `json:"band"`
	BandLabel  string            `json:"band_label"`
	Reasons    []string          `json:"reasons"`
}

// ScoreRemoval rates how cheaply an assignment can be dropped. Low project
// priority, low allocation and recency all push the score up.
func ScoreRemoval(a models.Assignment, now time.Time) RemovalCandidate {
	var score float64
	var reasons []string

	switch a.Project.Priority {
	case models.PriorityLow:
		score += 30
		reasons = append(reasons, "low priority project")
	case models.PriorityMedium:
		score += 10
		reasons = append(reasons, "medium priority project")
	}

	allocationRelief := clamp((100-a.AllocationPercentage)*0.5, 0, 50)
	score += allocationRelief
	reasons = append(reasons, fmt.Sprintf("only %.0f%% allocated", a.AllocationPercentage))

	if now.Sub(a.CreatedAt) < recentAssignmentWindow {
		score += 15
		reasons = append(reasons, "recently assigned")
	}

	band := BandKeep
	switch {
	case score > 50:
		band = BandEasy
	case score > 30:
		band = BandModerate
	}

	return RemovalCandidate{
		Assignment: a,
		Score:      score,
		Band:       band,
		BandLabel:  band.Label(),
		Reasons:    reasons,
	}
}

// RankRemovals scores every assignment and orders them easiest-first.
func RankRemovals(assignments []models.Assignment, now time.Time) []RemovalCandidate {
	out := make([]RemovalCandidate, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, ScoreRemoval(a, now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// PersonContext is the slice of a person's state the match scorer needs.
type PersonContext struct {
	PersonID           uint
	LocationID         uint
	Utilization        float64
	AvailableHours     float64
	AllocatedHours     float64
	AssignedProjectIDs map[uint]struct{}
}

// AvailableCapacityHours is the unallocated remainder of the person's
// monthly capacity.
func (p PersonContext) AvailableCapacityHours() float64 {
	return math.Max(p.AvailableHours-p.AllocatedHours, 0)
}

type ProjectMatch struct {
	Project        models.Project `json:"project"`
	Score          float64        `json:"score"`
	EstimatedHours float64        `json:"estimated_hours"`
	Reasons        []string       `json:"reasons"`
}

// Scorer ranks candidate projects. The rand source only feeds the small
// tie-breaking jitter; tests inject a fixed seed for reproducible order.
type Scorer struct {
	rng *rand.Rand
}

func NewScorer() *Scorer {
	return &Scorer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func NewScorerWithSource(rng *rand.Rand) *Scorer {
	return &Scorer{rng: rng}
}

const topMatches = 5

// MatchProjects scores candidate projects for a person and returns the top
// five. Projects the person already works on are excluded.
func (s *Scorer) MatchProjects(person PersonContext, projects []models.Project) []ProjectMatch {
	matches := make([]ProjectMatch, 0, len(projects))
	for _, p := range projects {
		if _, assigned := person.AssignedProjectIDs[p.ID]; assigned {
			continue
		}
		if p.Status == models.StatusCompleted {
			continue
		}
		matches = append(matches, s.scoreMatch(person, p))
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topMatches {
		matches = matches[:topMatches]
	}
	return matches
}

func (s *Scorer) scoreMatch(person PersonContext, p models.Project) ProjectMatch {
	score := 20.0
	var reasons []string

	switch p.Priority {
	case models.PriorityHigh:
		score += 30
		reasons = append(reasons, "high priority project")
	case models.PriorityMedium:
		score += 20
		reasons = append(reasons, "medium priority project")
	case models.PriorityLow:
		score += 10
		reasons = append(reasons, "low priority project")
	}

	if p.LocationID != 0 && p.LocationID == person.LocationID {
		score += 15
		reasons = append(reasons, "same location")
	}

	switch {
	case person.Utilization < 50:
		score += 25
		reasons = append(reasons, "significant spare capacity")
	case person.Utilization < 80:
		score += 15
		reasons = append(reasons, "spare capacity")
	case person.Utilization < 100:
		score += 5
		reasons = append(reasons, "some spare capacity")
	}

	if p.AspirationStart != nil && p.AspirationFinish != nil {
		score += 10
		reasons = append(reasons, "timeline defined")
	}

	if p.IncludeInDemand {
		score += 15
		reasons = append(reasons, "counted in demand plan")
	}

	// tie-breaking jitter, bounded below the smallest factor
	score += s.rng.Float64() * 10

	return ProjectMatch{
		Project:        p,
		Score:          score,
		EstimatedHours: EstimatedHours(person.AvailableCapacityHours(), p.Priority),
		Reasons:        reasons,
	}
}

// EstimatedHours suggests a starting monthly commitment: a priority-scaled
// share of the person's spare capacity, capped per priority and floored at
// five hours.
func EstimatedHours(availableCapacityHours float64, priority models.ProjectPriority) float64 {
	var factor, maxHours float64
	switch priority {
	case models.PriorityHigh:
		factor, maxHours = 0.6, 30
	case models.PriorityMedium:
		factor, maxHours = 0.4, 20
	default:
		factor, maxHours = 0.25, 15
	}
	hours := math.Min(availableCapacityHours*factor, maxHours)
	return math.Max(hours, 5)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
