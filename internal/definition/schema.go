package definition

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// HCL-facing schema. These structs mirror the block layout of a definition
// file and are translated into the format-agnostic model by the loader.

type fileRoot struct {
	Definitions []*definitionBlock `hcl:"definition,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type definitionBlock struct {
	Description string         `hcl:"description,optional"`
	Author      string         `hcl:"author,optional"`
	Targets     []*targetBlock `hcl:"target,block"`
}

type targetBlock struct {
	File    string         `hcl:"file,label"`
	Layout  string         `hcl:"layout,optional"`
	Objects []*objectBlock `hcl:"object,block"`
}

type objectBlock struct {
	Name    string         `hcl:"object_name,label"`
	Changes []*changeBlock `hcl:"change,block"`
	Deletes []*deleteBlock `hcl:"delete,block"`
}

type changeBlock struct {
	Property string       `hcl:"property,label"`
	Value    cty.Value    `hcl:"value"`
	Ensure   *ensureBlock `hcl:"ensure,block"`
}

type deleteBlock struct {
	Property string `hcl:"property,label"`
	Value    string `hcl:"value"`
}

type ensureBlock struct {
	Object string `hcl:"object,optional"`
	JSON   string `hcl:"json"`
}
