package gen

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Module("gen", fx.Provide(NewNode))

// NewNode builds the snowflake node used for task and config IDs. A fixed
// node ID is fine for a single-instance batch engine.
func NewNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
