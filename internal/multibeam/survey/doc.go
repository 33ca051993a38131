// Package survey is the facade over the waterfall pipeline.
//
// A Survey folds a datagram.Source into navigation and ping state, one
// record at a time and in arrival order, then finalises the along-track and
// across-track resolutions. Rendering is only possible after Run has
// returned, because the stretch factor depends on the final resolutions.
//
// Dependency rule: survey may import any internal/multibeam package; nothing
// in internal/multibeam imports survey.
package survey
