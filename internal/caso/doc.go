// Package caso holds the in-memory case collection behind the /casos API.
//
// A Caso is a small work item (name, description, state, priority and an
// optional assignee). The Store keeps records in insertion order, validates
// every create and update before touching the collection, and hands out
// copies so callers can never mutate stored records.
//
// Request bodies are decoded into CreateInput / UpdateInput, whose Field
// values remember whether a JSON key was absent, null or set. Updates depend
// on that distinction: "responsable": null clears the assignee while an
// absent key keeps it.
//
// Records are not persisted; the collection is rebuilt from Seed on start.
package caso
