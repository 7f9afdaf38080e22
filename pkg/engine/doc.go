// Package engine is the composition root that assembles the ai-ui
// components from configuration and exposes them through a
// frontend-agnostic API. Frontends (the CLI, a desktop shell) interact with
// Engine and Session, observe activity through an EventBus, and never wire
// backends, credentials or tool providers themselves.
package engine
