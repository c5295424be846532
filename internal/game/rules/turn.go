package rules

import (
	"fmt"
	"strings"
)

// Stage represents the broad stages of a Rift turn.
type Stage int

const (
	StageSetup Stage = iota
	StageBeginning
	StageResource
	StageAction
	StageEnding
)

var stageNames = map[Stage]string{
	StageSetup:     "SETUP",
	StageBeginning: "BEGINNING",
	StageResource:  "RESOURCE",
	StageAction:    "ACTION",
	StageEnding:    "ENDING",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STAGE_%d", int(s))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepMulligan Step = iota
	StepAwaken
	StepBeginning
	StepScoring
	StepChannel
	StepDraw
	StepAction
	StepEnding
	StepExpiration
	StepCleanup
)

var stepNames = map[Step]string{
	StepMulligan:   "MULLIGAN",
	StepAwaken:     "AWAKEN",
	StepBeginning:  "BEGINNING",
	StepScoring:    "SCORING",
	StepChannel:    "CHANNEL",
	StepDraw:       "DRAW",
	StepAction:     "ACTION",
	StepEnding:     "ENDING",
	StepExpiration: "EXPIRATION",
	StepCleanup:    "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

type turnEntry struct {
	stage Stage
	step  Step
}

// turnSequence is the fixed step structure of every turn after the mulligan.
// The mulligan step exists only once, before turn 1's Awaken.
var turnSequence = []turnEntry{
	{StageBeginning, StepAwaken},
	{StageBeginning, StepBeginning},
	{StageBeginning, StepScoring},
	{StageResource, StepChannel},
	{StageResource, StepDraw},
	{StageAction, StepAction},
	{StageEnding, StepEnding},
	{StageEnding, StepExpiration},
	{StageEnding, StepCleanup},
}

// TurnManager tracks turn/priority player and step progression.
type TurnManager struct {
	orderIndex     int
	turnNumber     int
	turnPlayer     string
	priorityPlayer string
	inMulligan     bool
}

// NewTurnManager creates a turn manager parked on the mulligan step.
func NewTurnManager(turnPlayer string) *TurnManager {
	active := strings.TrimSpace(turnPlayer)
	return &TurnManager{
		orderIndex:     0,
		turnNumber:     1,
		turnPlayer:     active,
		priorityPlayer: active,
		inMulligan:     true,
	}
}

// CurrentStage returns the stage currently in progress.
func (tm *TurnManager) CurrentStage() Stage {
	if tm.inMulligan {
		return StageSetup
	}
	return turnSequence[tm.orderIndex].stage
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	if tm.inMulligan {
		return StepMulligan
	}
	return turnSequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// TurnPlayer returns the player who currently has the turn.
func (tm *TurnManager) TurnPlayer() string {
	return tm.turnPlayer
}

// PriorityPlayer returns the player who currently has priority.
func (tm *TurnManager) PriorityPlayer() string {
	return tm.priorityPlayer
}

// SetPriority sets the player who currently has priority.
func (tm *TurnManager) SetPriority(player string) {
	tm.priorityPlayer = strings.TrimSpace(player)
}

// InMulligan reports whether the pre-game mulligan is still in progress.
func (tm *TurnManager) InMulligan() bool {
	return tm.inMulligan
}

// EndMulligan leaves the mulligan step and enters turn 1's Awaken step.
func (tm *TurnManager) EndMulligan() (Stage, Step) {
	tm.inMulligan = false
	tm.orderIndex = 0
	tm.priorityPlayer = tm.turnPlayer
	return tm.CurrentStage(), tm.CurrentStep()
}

// AdvanceStep advances to the next step in the turn structure.
// When the end of the structure is reached, the turn number is incremented
// and the turn player is rotated to nextTurnPlayer if provided.
func (tm *TurnManager) AdvanceStep(nextTurnPlayer string) (Stage, Step) {
	if tm.inMulligan {
		return tm.EndMulligan()
	}

	tm.orderIndex++
	if tm.orderIndex >= len(turnSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		if next := strings.TrimSpace(nextTurnPlayer); next != "" {
			tm.turnPlayer = next
		}
	}

	// Priority always reverts to the turn player at the start of a step.
	tm.priorityPlayer = tm.turnPlayer

	return tm.CurrentStage(), tm.CurrentStep()
}

// Clone returns an independent copy for state previews.
func (tm *TurnManager) Clone() *TurnManager {
	cp := *tm
	return &cp
}

// IsLastStep reports whether the current step is the final one of the
// turn, so the next advance rotates the turn player.
func (tm *TurnManager) IsLastStep() bool {
	return !tm.inMulligan && tm.orderIndex == len(turnSequence)-1
}

// StepIndex returns the position of the current step within the turn,
// or -1 during the mulligan. Within a turn the index only moves forward,
// so a step can never regress past an earlier stage boundary.
func (tm *TurnManager) StepIndex() int {
	if tm.inMulligan {
		return -1
	}
	return tm.orderIndex
}
