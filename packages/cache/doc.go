// Package cache holds the response cache of a request definition.
//
// Every definition owns one Slot. A Slot keeps at most one Entry and answers
// Get only while the entry is live under its TTL:
//   - the zero TTL keeps an entry for the life of the process
//   - Disabled never stores anything
//   - any positive duration expires the entry after that long
//
// Time is read through a Clock so expiry can be tested with Fake.
package cache
