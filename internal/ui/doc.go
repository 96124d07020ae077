// Package ui implements the single-screen edit-post form: four editable
// fields bound to a fetched blog post, a #-triggered template autocomplete
// dropdown under the content area, and the submit/navigate flow.
//
// The model keeps two explicit lifecycle enums (load and submit) instead of
// independent boolean flags, so states like "submitting before loaded" are
// unrepresentable. All network work happens in tea.Cmd closures that resolve
// to typed messages; handlers are registered per message type.
package ui
