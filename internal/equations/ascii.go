package equations

import "strings"

var asciiReplacer = strings.NewReplacer(
	"r\u0302", "r_hat",
	"≈", "~",
	"β", "beta",
	"·", "*",
)
