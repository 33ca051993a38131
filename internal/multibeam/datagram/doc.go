// Package datagram owns the record layer of the multibeam data model.
//
// Responsibilities: the decoded record types the waterfall pipeline consumes
// (positions and depth pings), the Source contract a record stream must
// satisfy, and two concrete sources: an in-memory slice and a line-oriented
// survey log made of NMEA position sentences plus $SDMBD depth sentences.
//
// Dependency rule: datagram depends on nothing else in internal/multibeam.
// Decoding vendor binary formats is out of scope; a binary reader only has to
// implement Source.
package datagram
