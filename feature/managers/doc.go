// Package managers holds the profile of every supported package manager.
//
// A profile tells the reconcile engine how records of one upstream are keyed
// and how its relationship kinds map onto dependency types. Profiles are
// looked up by source name, the same name that prefixes derived ids.
package managers
