// Package reading holds the session state of one tarot reading: card
// selection over a spread's positions, the selection → view transition, and
// bookkeeping for overlapping generation requests.
package reading

import (
	"errors"
	"fmt"
	"sort"

	"taromini/internal/models"
)

type State string

const (
	StateSelectCards State = "select_cards"
	StateViewReading State = "view_reading"
)

// DragSource tells where a dragged card came from in the drag-and-drop
// selection variant.
type DragSource int

const (
	DragFromDeck DragSource = iota
	DragFromPosition
)

var (
	ErrIncomplete      = errors.New("не все позиции расклада заполнены")
	ErrUnknownPosition = errors.New("позиция не входит в расклад")
	ErrPlacedImmovable = errors.New("размещённую карту нельзя перетащить, сначала удалите её")
)

// Flow owns the selection state for one spread. Not safe for concurrent
// use; the panel drives it from a single goroutine.
type Flow struct {
	spread    *models.SpreadDetails
	deck      *models.Deck
	state     State
	selected  map[int]models.SelectedCard
	question  string
	positions []int

	genSeq     uint64
	resultSeq  uint64
	resultText string
}

func NewFlow(spread *models.SpreadDetails, deck *models.Deck) *Flow {
	return &Flow{
		spread:    spread,
		deck:      deck,
		state:     StateSelectCards,
		selected:  make(map[int]models.SelectedCard),
		positions: flattenGrid(spread.Grid),
	}
}

func flattenGrid(grid [][]int) []int {
	var positions []int
	for _, row := range grid {
		positions = append(positions, row...)
	}
	sort.Ints(positions)
	return positions
}

func (f *Flow) State() State                  { return f.state }
func (f *Flow) Spread() *models.SpreadDetails { return f.spread }
func (f *Flow) Deck() *models.Deck            { return f.deck }
func (f *Flow) Question() string              { return f.question }
func (f *Flow) SetQuestion(q string)          { f.question = q }

// Positions returns the spread's declared position identifiers, sorted.
func (f *Flow) Positions() []int {
	out := make([]int, len(f.positions))
	copy(out, f.positions)
	return out
}

// Selected returns the placed cards ordered by position.
func (f *Flow) Selected() []models.SelectedCard {
	out := make([]models.SelectedCard, 0, len(f.selected))
	for _, c := range f.selected {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (f *Flow) hasPosition(position int) bool {
	for _, p := range f.positions {
		if p == position {
			return true
		}
	}
	return false
}

// Assign places cardID on a position. Replacing an occupied position resets
// its orientation to upright. An empty cardID clears the position instead.
func (f *Flow) Assign(position int, cardID string) error {
	if !f.hasPosition(position) {
		return fmt.Errorf("%w: %d", ErrUnknownPosition, position)
	}
	if cardID == "" {
		f.Remove(position)
		return nil
	}
	f.selected[position] = models.SelectedCard{Position: position, CardID: cardID}
	return nil
}

// ToggleReversed flips the orientation of a placed card. No-op when the
// position is unoccupied.
func (f *Flow) ToggleReversed(position int) {
	c, ok := f.selected[position]
	if !ok {
		return
	}
	c.IsReversed = !c.IsReversed
	f.selected[position] = c
}

// Remove clears a position. Idempotent.
func (f *Flow) Remove(position int) {
	delete(f.selected, position)
}

// Drop handles the drag-and-drop variant: cards may only be dragged from
// the deck, and dropping onto an occupied position replaces its card
// outright (no swap).
func (f *Flow) Drop(source DragSource, position int, cardID string) error {
	if source != DragFromDeck {
		return ErrPlacedImmovable
	}
	if cardID == "" {
		return fmt.Errorf("%w: пустая карта", ErrUnknownPosition)
	}
	return f.Assign(position, cardID)
}

// Complete reports whether the occupied positions cover exactly the
// position set declared by the spread grid, membership and size both.
func (f *Flow) Complete() bool {
	if len(f.positions) == 0 || len(f.selected) != len(f.positions) {
		return false
	}
	for _, p := range f.positions {
		if _, ok := f.selected[p]; !ok {
			return false
		}
	}
	return true
}

// Submit transitions select_cards → view_reading; only possible when the
// selection is complete.
func (f *Flow) Submit() error {
	if !f.Complete() {
		return ErrIncomplete
	}
	f.state = StateViewReading
	return nil
}

// Back returns to card selection unconditionally, keeping the placed cards
// so the user can adjust without restarting.
func (f *Flow) Back() {
	f.state = StateSelectCards
}

// BeginGeneration tags a new generation request. The most recently begun
// request is the only one whose completion will be accepted.
func (f *Flow) BeginGeneration() uint64 {
	f.genSeq++
	return f.genSeq
}

// FinishGeneration records a completed generation. Stale completions
// (superseded by a later BeginGeneration) are discarded and reported false.
func (f *Flow) FinishGeneration(seq uint64, text string) bool {
	if seq != f.genSeq || seq <= f.resultSeq {
		return false
	}
	f.resultSeq = seq
	f.resultText = text
	return true
}

// Result returns the text of the authoritative (latest accepted)
// generation, empty when none finished yet.
func (f *Flow) Result() string { return f.resultText }
