package link

import (
	"fmt"
	"math"

	"github.com/tkrish/gesturearm/pkg/arm"
)

// Encode renders one wire command: an ASCII line "S<index>,<angle>\n"
// where index is the joint's wire index and angle is rounded to the
// nearest whole degree. The firmware parses nothing else; there is no
// framing beyond the newline and no acknowledgment.
func Encode(j arm.Joint, angle float64) []byte {
	return []byte(fmt.Sprintf("S%d,%d\n", int(j), int(math.Round(angle))))
}
