package model

import (
    "encoding/json"
    "time"
)

// Difficulty levels accepted in the scenarios.difficulty column.
const (
    DifficultyEasy   = "EASY"
    DifficultyMedium = "MEDIUM"
    DifficultyHard   = "HARD"
)

// ValidDifficulty reports whether s is one of the accepted
// difficulty enumeration values.
func ValidDifficulty(s string) bool {
    switch s {
    case DifficultyEasy, DifficultyMedium, DifficultyHard:
        return true
    }
    return false
}

// Scenario represents a design prompt stored in the `scenarios` table.
// The three requirement columns hold serialized JSON blobs that are
// validated structurally when an admin writes them and parsed lazily
// when read. Their internal meaning belongs to the frontend; the
// server only guarantees the container shapes.
//
// Fields:
//  ID                        – primary key identifier.
//  Title                     – short prompt title.
//  Description               – full prompt text.
//  Difficulty                – EASY, MEDIUM or HARD.
//  FunctionalRequirements    – JSON array of strings (ordered).
//  NonFunctionalRequirements – JSON array of strings (ordered).
//  CapacityEstimations       – JSON object mapping string keys to string values.
//  CreatedAt                 – timestamp of creation.
type Scenario struct {
    ID                        uint64    // scenarios.id
    Title                     string    // scenarios.title
    Description               string    // scenarios.description
    Difficulty                string    // scenarios.difficulty
    FunctionalRequirements    string    // scenarios.functional_requirements (JSON blob)
    NonFunctionalRequirements string    // scenarios.non_functional_requirements (JSON blob)
    CapacityEstimations       string    // scenarios.capacity_estimations (JSON blob)
    CreatedAt                 time.Time // scenarios.created_at
}

// ValidStringList reports whether raw is a JSON array whose elements
// are all strings. An empty string is accepted and treated as an
// empty list so that optional requirement fields can be omitted.
func ValidStringList(raw string) bool {
    if raw == "" {
        return true
    }
    var items []string
    return json.Unmarshal([]byte(raw), &items) == nil
}

// ValidStringMap reports whether raw is a JSON object whose values
// are all strings. An empty string is accepted like in ValidStringList.
func ValidStringMap(raw string) bool {
    if raw == "" {
        return true
    }
    var m map[string]string
    return json.Unmarshal([]byte(raw), &m) == nil
}
