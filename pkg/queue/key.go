package queue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultProjectID is the reserved project id that matches every project's flush
// pass. Events queued under it are submitted by whichever project flushes
// first.
const DefaultProjectID = "default"

var (
	keyPattern     = regexp.MustCompile(`^(\w+)-(\d+)-(\w+)$`)
	projectPattern = regexp.MustCompile(`^\w+$`)
)

// Key addresses one queued event: {projectId}-{unixSeconds}-{randomSuffix}.
type Key struct {
	ProjectID string
	CreatedAt int64 // Unix seconds
	Suffix    string
}

// NewKey builds a fresh key for the given project stamped with the given
// creation time. The suffix makes collisions within one second negligible.
func NewKey(projectID string, createdAt int64) Key {
	return Key{
		ProjectID: projectID,
		CreatedAt: createdAt,
		Suffix:    newSuffix(),
	}
}

func newSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// ParseKey parses a stored key. Keys that do not match the addressing
// pattern are not errors; scan leaves them untouched.
func ParseKey(raw string) (Key, bool) {
	m := keyPattern.FindStringSubmatch(raw)
	if m == nil {
		return Key{}, false
	}
	createdAt, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Key{}, false
	}
	return Key{ProjectID: m[1], CreatedAt: createdAt, Suffix: m[3]}, true
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%d-%s", k.ProjectID, k.CreatedAt, k.Suffix)
}

// ValidProjectID reports whether the id is usable inside a queue key.
func ValidProjectID(projectID string) bool {
	return projectPattern.MatchString(projectID)
}
