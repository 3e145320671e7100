// Package pollsource reads raw poll result files and resolves each vote into
// a scored record via the scoring rules. Downstream aggregation only ever
// sees resolved scores, never vote payloads.
package pollsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maidenover/standings/internal/domain/aggregate"
	"github.com/maidenover/standings/internal/domain/model"
	"github.com/maidenover/standings/internal/domain/scoring"
)

// Sentinel kinds for poll source errors.
var (
	ErrMissingField = errors.New("poll missing required field")
	ErrNoPolls      = errors.New("no poll files found")
)

// shortNames maps full team names to their abbreviations.
var shortNames = map[string]string{
	"Chennai Super Kings":         "CSK",
	"Delhi Capitals":              "DC",
	"Gujarat Titans":              "GT",
	"Kolkata Knight Riders":       "KKR",
	"Lucknow Super Giants":        "LSG",
	"Mumbai Indians":              "MI",
	"Punjab Kings":                "PBKS",
	"Rajasthan Royals":            "RR",
	"Royal Challengers Bengaluru": "RCB",
	"Sunrisers Hyderabad":         "SRH",
}

// ShortName abbreviates a full team name, falling back to the input.
func ShortName(team string) string {
	if short, ok := shortNames[team]; ok {
		return short
	}
	return team
}

// Poll mirrors the exported poll result JSON.
type Poll struct {
	MessageID string   `json:"messageId"`
	Points    float64  `json:"points"`
	Winner    string   `json:"winner"`         // winner polls: winning team short name
	Margin    string   `json:"margin"`         // margin polls: e.g. "14 runs"
	Qualified []string `json:"qualifiedteams"` // playoff polls: the 4 qualifiers
	Answers   []Answer `json:"answers"`
	Votes     []Vote   `json:"votes"`
}

// Answer is one selectable poll option.
type Answer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Vote is one user's selection.
type Vote struct {
	User     User `json:"user"`
	AnswerID int  `json:"answerId"`
}

// User identifies a voter. Username is the stable key; GlobalName is the
// display label and may change between runs.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"globalName"`
}

func (v Vote) record() model.ScoreRecord {
	label := v.User.GlobalName
	if label == "" {
		label = v.User.Username
	}
	return model.ScoreRecord{Key: v.User.Username, Label: label}
}

// ReadDir parses every .json poll file in dir, in lexical filename order so
// contest-unit columns are stable across runs.
func ReadDir(dir string) ([]Poll, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read poll dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoPolls, dir)
	}
	sort.Strings(names)

	polls := make([]Poll, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read poll %q: %w", name, err)
		}
		var p Poll
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse poll %q: %w", name, err)
		}
		if p.MessageID == "" {
			p.MessageID = strings.TrimSuffix(name, ".json")
		}
		polls = append(polls, p)
	}
	return polls, nil
}

// ResolveWinner turns a winner poll into a contest unit: match points for
// votes on the winning team, zero otherwise.
func (p Poll) ResolveWinner() (aggregate.Unit, error) {
	if p.Winner == "" {
		return aggregate.Unit{}, fmt.Errorf("poll %q: %w: winner", p.MessageID, ErrMissingField)
	}
	points := p.Points
	if points == 0 {
		points = 1 // legacy polls before per-match points existed
	}
	rule, err := scoring.NewWinnerRule(p.Winner, points)
	if err != nil {
		return aggregate.Unit{}, fmt.Errorf("poll %q: %w", p.MessageID, err)
	}

	answers := p.answerNames()
	unit := aggregate.Unit{ID: p.MessageID, Records: make([]model.ScoreRecord, 0, len(p.Votes))}
	for _, v := range p.Votes {
		pick := ShortName(answers[v.AnswerID])
		rec := v.record()
		rec.Pick = pick
		rec.Score = rule.Score(pick)
		unit.Records = append(unit.Records, rec)
	}
	return unit, nil
}

// ResolveMargin turns a margin poll into a contest unit: bucket points for
// votes on the bucket containing the decided margin.
func (p Poll) ResolveMargin() (aggregate.Unit, error) {
	if p.Margin == "" {
		return aggregate.Unit{}, fmt.Errorf("poll %q: %w: margin", p.MessageID, ErrMissingField)
	}
	outcome, err := scoring.ParseMargin(p.Margin)
	if err != nil {
		return aggregate.Unit{}, fmt.Errorf("poll %q: %w", p.MessageID, err)
	}
	rule, err := scoring.NewMarginRule(outcome, p.Points)
	if err != nil {
		return aggregate.Unit{}, fmt.Errorf("poll %q: %w", p.MessageID, err)
	}

	buckets := make(map[int]scoring.Bucket, len(p.Answers))
	for _, a := range p.Answers {
		buckets[a.ID] = scoring.ParseBucket(a.Name, outcome.Unit)
	}

	unit := aggregate.Unit{ID: p.MessageID, Records: make([]model.ScoreRecord, 0, len(p.Votes))}
	for _, v := range p.Votes {
		bucket := buckets[v.AnswerID]
		rec := v.record()
		rec.Pick = bucket.Label
		rec.Score = rule.Score(bucket)
		unit.Records = append(unit.Records, rec)
	}
	return unit, nil
}

// ResolvePlayoff turns a playoff prediction poll into a single contest unit.
// Each user's votes are their picks; scoring uses set semantics, so the same
// team voted twice counts once.
func (p Poll) ResolvePlayoff() (aggregate.Unit, error) {
	qualified := make([]string, 0, len(p.Qualified))
	for _, team := range p.Qualified {
		qualified = append(qualified, ShortName(team))
	}
	rule, err := scoring.NewPlayoffRule(qualified, p.Points)
	if err != nil {
		return aggregate.Unit{}, fmt.Errorf("poll %q: %w", p.MessageID, err)
	}

	answers := p.answerNames()
	picks := make(map[string][]string)
	labels := make(map[string]string)
	var order []string
	for _, v := range p.Votes {
		key := v.User.Username
		if _, ok := picks[key]; !ok {
			order = append(order, key)
		}
		picks[key] = append(picks[key], ShortName(answers[v.AnswerID]))
		if v.User.GlobalName != "" {
			labels[key] = v.User.GlobalName
		}
	}

	unit := aggregate.Unit{ID: p.MessageID, Records: make([]model.ScoreRecord, 0, len(picks))}
	for _, key := range order {
		score, correct := rule.Score(picks[key])
		label := labels[key]
		if label == "" {
			label = key
		}
		pick := strings.Join(correct, ", ")
		if pick == "" {
			pick = "---"
		}
		unit.Records = append(unit.Records, model.ScoreRecord{
			Key:   key,
			Label: label,
			Pick:  pick,
			Score: score,
		})
	}
	return unit, nil
}

func (p Poll) answerNames() map[int]string {
	names := make(map[int]string, len(p.Answers))
	for _, a := range p.Answers {
		names[a.ID] = a.Name
	}
	return names
}
