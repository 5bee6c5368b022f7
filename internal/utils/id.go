package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateUUID returns a new v4 UUID string, the primary key of every entity.
func GenerateUUID() string {
	return uuid.New().String()
}

// randSuffix returns a 4-digit suffix for human-facing codes.
func randSuffix() int {
	return rand.Intn(10000)
}

// GenerateDatedCode builds a code like ENS-20250828-1234. Used for entities
// whose intake date matters (proyectos, perforaciones, ensayos, muestras).
func GenerateDatedCode(prefix string) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, time.Now().UTC().Format("20060102"), randSuffix())
}

// GenerateSimpleCode builds a code like CLI-1234 for reference entities.
func GenerateSimpleCode(prefix string) string {
	return fmt.Sprintf("%s-%04d", prefix, randSuffix())
}
