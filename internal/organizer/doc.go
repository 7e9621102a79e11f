// Package organizer locates an event organizer's name, website and email on
// an event detail page.
//
// Three strategies run in a fixed order over the parsed page:
//
//  1. KeywordProximity looks for organizer phrases in the page text and takes
//     the first http link found in the next few sibling elements.
//  2. EmailScan applies an email pattern to the raw markup and takes the
//     first address not belonging to a social platform.
//  3. ContactProbe follows contact/about/organizer links and keeps the first
//     one that answers a liveness probe.
//
// Every strategy runs; a later finding overwrites the fields and status set by
// an earlier one. Strategies see the page through the Tree and Node
// interfaces so they can be exercised against synthetic trees.
package organizer
