package main

import (
	"github.com/san-kum/jointreg/internal/dynamo"
	"github.com/san-kum/jointreg/internal/jointset"
	"github.com/san-kum/jointreg/internal/storage"
	"github.com/san-kum/jointreg/internal/viz"
)

// recorder observes the engine and keeps the mobilizers in the order they
// were accepted.
type recorder struct {
	plan       []jointset.Step
	mobilizers []dynamo.Mobilizer
}

func (r *recorder) OnMobilize(idx dynamo.MobilizedBodyIndex, m dynamo.Mobilizer) {
	r.mobilizers = append(r.mobilizers, m)
}

func (r *recorder) rows() []viz.Row {
	// Child bodies are unique within a plan; joint names need not be.
	steps := make(map[*dynamo.Body]jointset.Step, len(r.plan))
	for _, st := range r.plan {
		steps[st.Joint.Child()] = st
	}

	rows := make([]viz.Row, len(r.mobilizers))
	for i, m := range r.mobilizers {
		st := steps[m.Child]
		rows[i] = viz.Row{
			Position: i,
			Joint:    m.Joint,
			Type:     m.Type,
			Parent:   m.Parent.String(),
			Child:    m.Child.String(),
			Depth:    st.Depth,
			Level:    st.Level,
		}
	}
	return rows
}

func toEntries(rows []viz.Row) []storage.OrderEntry {
	entries := make([]storage.OrderEntry, len(rows))
	for i, r := range rows {
		entries[i] = storage.OrderEntry(r)
	}
	return entries
}
