// Package aa implements decoders for the streams of a MADS .AA animation
// resource.
//
// An AA resource is a MADSPACK container (see package madspack). Stream 0
// holds the header; the following streams hold, in order and only when their
// count in the header is non-zero, the caption messages, the frame placement
// entries and the per-frame misc (timing) entries.
//
// This package only decodes. Loading sprite sets and playing the animation
// back is done by package anim.
package aa
