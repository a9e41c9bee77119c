/*
 * errors.go, part of msmgo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package msm

import (
	"fmt"
	"strings"
)

//deco is embedded in all the errors of the package. It implements
//the Decorate part of the Error interface.
type deco struct {
	calls []string
}

//Decorate adds the caller information to the error and returns the
//whole list. An empty string adds nothing.
func (d *deco) Decorate(caller string) []string {
	if caller != "" {
		d.calls = append(d.calls, caller)
	}
	return d.calls
}

func (d *deco) trace() string {
	if len(d.calls) == 0 {
		return ""
	}
	return " (" + strings.Join(d.calls, " <- ") + ")"
}

// NotFoundError is returned when a key is absent in a store.
type NotFoundError struct {
	deco
	Store string
	Key   string
}

func NewNotFoundError(store, key, caller string) *NotFoundError {
	return &NotFoundError{deco: deco{[]string{caller}}, Store: store, Key: key}
}

func (E *NotFoundError) Error() string {
	return fmt.Sprintf("msmgo: key %q not found in store %s%s", E.Key, E.Store, E.trace())
}

// StoreUnavailableError is returned when a store can't be opened or read.
type StoreUnavailableError struct {
	deco
	Store string
	Err   error
}

func NewStoreUnavailableError(store string, err error, caller string) *StoreUnavailableError {
	return &StoreUnavailableError{deco: deco{[]string{caller}}, Store: store, Err: err}
}

func (E *StoreUnavailableError) Error() string {
	return fmt.Sprintf("msmgo: store %s unavailable: %v%s", E.Store, E.Err, E.trace())
}

func (E *StoreUnavailableError) Unwrap() error { return E.Err }

// DeserializationError is returned when the stored bytes don't match the
// expected shape of the value. Key is empty when the failure concerns the
// whole store rather than one entry.
type DeserializationError struct {
	deco
	Store string
	Key   string
	Err   error
}

func NewDeserializationError(store, key string, err error, caller string) *DeserializationError {
	return &DeserializationError{deco: deco{[]string{caller}}, Store: store, Key: key, Err: err}
}

func (E *DeserializationError) Error() string {
	if E.Key == "" {
		return fmt.Sprintf("msmgo: can't decode store %s: %v%s", E.Store, E.Err, E.trace())
	}
	return fmt.Sprintf("msmgo: can't decode key %q of store %s: %v%s", E.Key, E.Store, E.Err, E.trace())
}

func (E *DeserializationError) Unwrap() error { return E.Err }

// UnknownTrajectoryError is returned when an index pair refers to a trajectory
// that is not in the collection. Index is the position of the pair in the list
// given, or -1.
type UnknownTrajectoryError struct {
	deco
	Traj  TrajID
	Index int
}

func NewUnknownTrajectoryError(t TrajID, index int, caller string) *UnknownTrajectoryError {
	return &UnknownTrajectoryError{deco: deco{[]string{caller}}, Traj: t, Index: index}
}

func (E *UnknownTrajectoryError) Error() string {
	return fmt.Sprintf("msmgo: unknown trajectory %q (pair %d)%s", string(E.Traj), E.Index, E.trace())
}

// FrameOutOfRangeError is returned when a frame index is not a valid row of
// its trajectory.
type FrameOutOfRangeError struct {
	deco
	Traj    TrajID
	Frame   int
	NFrames int
	Index   int
}

func NewFrameOutOfRangeError(t TrajID, frame, nframes, index int, caller string) *FrameOutOfRangeError {
	return &FrameOutOfRangeError{deco: deco{[]string{caller}}, Traj: t, Frame: frame, NFrames: nframes, Index: index}
}

func (E *FrameOutOfRangeError) Error() string {
	return fmt.Sprintf("msmgo: frame %d out of range [0,%d) for trajectory %q (pair %d)%s", E.Frame, E.NFrames, string(E.Traj), E.Index, E.trace())
}

// RenderError is returned when something fails while drawing.
type RenderError struct {
	deco
	Err error
}

func NewRenderError(err error, caller string) *RenderError {
	return &RenderError{deco: deco{[]string{caller}}, Err: err}
}

func (E *RenderError) Error() string {
	return fmt.Sprintf("msmgo: render failed: %v%s", E.Err, E.trace())
}

func (E *RenderError) Unwrap() error { return E.Err }

//Decorate adds caller to err if err implements Error, and returns err.
//Other errors are returned unchanged.
func Decorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}
