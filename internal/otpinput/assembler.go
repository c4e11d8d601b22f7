// Package otpinput models the one-box-per-digit OTP entry field: which box
// holds what, which box has focus, and how keystrokes move focus between boxes.
//
// Handlers mirror the events a form receives. OnDigitEntered is the change
// event of a box, OnBackspace its Backspace keydown and OnSlotActivated a click.
// An Assembler is owned by a single UI loop and is not safe for concurrent use.
package otpinput

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// DefaultLength matches the length of server-issued codes.
const DefaultLength = 4

const noSlot = -1

// VerifyFunc submits an assembled code and returns the message to display.
type VerifyFunc func(ctx context.Context, code string) (string, error)

type Assembler struct {
	slots    []string
	focus    int
	selected int
	message  string
}

// New returns an assembler with length empty slots and focus on the first one.
func New(length int) *Assembler {
	if length < 1 {
		length = DefaultLength
	}
	return &Assembler{
		slots:    make([]string, length),
		focus:    0,
		selected: noSlot,
	}
}

func (a *Assembler) Len() int { return len(a.slots) }

// Slots returns a copy of the slot contents.
func (a *Assembler) Slots() []string { return append([]string(nil), a.slots...) }

func (a *Assembler) Focus() int { return a.focus }

// Selected is the slot whose content is selected for overwrite, or -1.
func (a *Assembler) Selected() int { return a.selected }

// Message is the result text of the last Submit.
func (a *Assembler) Message() string { return a.message }

// Code joins the slots; empty slots contribute nothing.
func (a *Assembler) Code() string { return strings.Join(a.slots, "") }

// OnDigitEntered stores the last character of raw in slot index. Pasting
// "5678" into one box keeps "8"; it is not spread over the following boxes.
// After a non-empty write focus jumps to the next empty slot after index,
// skipping filled ones, and stays put when there is none.
func (a *Assembler) OnDigitEntered(index int, raw string) {
	if !a.inRange(index) {
		return
	}
	value := lastChar(raw)
	a.slots[index] = value
	a.selected = noSlot

	if value == "" || index == len(a.slots)-1 {
		return
	}
	if next := a.firstEmptyFrom(index + 1); next != noSlot {
		a.focus = next
	}
}

// OnBackspace moves focus back one slot when slot index is already empty.
// It reports whether it did so, in which case the key's default action should
// be suppressed. Clearing a filled slot is left to OnDigitEntered.
func (a *Assembler) OnBackspace(index int) bool {
	if !a.inRange(index) || index == 0 || a.slots[index] != "" {
		return false
	}
	a.focus = index - 1
	a.selected = noSlot
	return true
}

// OnSlotActivated focuses slot index and selects its content. If the slot
// before it is still empty, focus goes to the earliest empty slot instead.
func (a *Assembler) OnSlotActivated(index int) {
	if !a.inRange(index) {
		return
	}
	a.focus = index
	a.selected = index

	if index > 0 && a.slots[index-1] == "" {
		// An empty predecessor guarantees an empty slot; the check keeps a
		// fully filled field from ever focusing slot -1.
		if first := a.firstEmptyFrom(0); first != noSlot {
			a.focus = first
			a.selected = first
		}
	}
}

// Type emulates typing r into the focused slot.
func (a *Assembler) Type(r rune) {
	raw := string(r)
	if a.selected != a.focus {
		raw = a.slots[a.focus] + raw
	}
	a.OnDigitEntered(a.focus, raw)
}

// Erase emulates Backspace in the focused slot: a filled slot is cleared,
// an empty one hands focus to its predecessor.
func (a *Assembler) Erase() {
	if a.OnBackspace(a.focus) {
		return
	}
	if a.slots[a.focus] != "" {
		a.OnDigitEntered(a.focus, "")
	}
}

// Submit sends the joined code through verify and records the outcome as
// Message. Slots are left as they are either way.
func (a *Assembler) Submit(ctx context.Context, verify VerifyFunc) (string, error) {
	msg, err := verify(ctx, a.Code())
	if err != nil {
		a.message = err.Error()
		return a.message, err
	}
	a.message = msg
	return msg, nil
}

func (a *Assembler) inRange(index int) bool {
	return index >= 0 && index < len(a.slots)
}

func (a *Assembler) firstEmptyFrom(from int) int {
	if from >= len(a.slots) {
		return noSlot
	}
	i := lo.IndexOf(a.slots[from:], "")
	if i < 0 {
		return noSlot
	}
	return from + i
}

func lastChar(raw string) string {
	if raw == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(raw)
	return raw[len(raw)-size:]
}
