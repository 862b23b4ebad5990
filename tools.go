//go:build tools
// +build tools

package insights

import (
	_ "github.com/maxbrunsfeld/counterfeiter/v6"
)
