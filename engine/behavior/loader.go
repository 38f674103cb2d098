package behavior

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oxyengine/charanim/engineerr"
)

// graphFile is the on-disk shape of a behavior graph (§6 "behaviors[]"
// entries point at one of these), decoded with the same gopkg.in/yaml.v3
// library the top-level engine config uses.
type graphFile struct {
	Name  string `yaml:"name"`
	Nodes []struct {
		ID     NodeID             `yaml:"id"`
		Type   NodeType           `yaml:"type"`
		Params map[string]float32 `yaml:"params,omitempty"`
	} `yaml:"nodes"`
	Links []struct {
		FromNode NodeID `yaml:"fromNode"`
		FromPin  Pin    `yaml:"fromPin"`
		ToNode   NodeID `yaml:"toNode"`
		ToPin    Pin    `yaml:"toPin"`
	} `yaml:"links"`
	Roots []NodeID `yaml:"roots"`
}

// LoadGraphFile reads and decodes a behavior graph from path. It does not
// validate or register the graph; call Registry.LoadGraph for that.
func LoadGraphFile(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindFileIO, fmt.Errorf("behavior: read %s: %w", path, err))
	}

	var gf graphFile
	if err := yaml.Unmarshal(raw, &gf); err != nil {
		return nil, engineerr.Wrap(engineerr.KindGraphIntegrity, fmt.Errorf("behavior: decode %s: %w", path, err))
	}

	g := &Graph{
		Name:  gf.Name,
		Nodes: make(map[NodeID]Node, len(gf.Nodes)),
		Roots: gf.Roots,
	}
	for _, n := range gf.Nodes {
		g.Nodes[n.ID] = Node{ID: n.ID, Type: n.Type, Params: n.Params}
	}
	for _, l := range gf.Links {
		g.Links = append(g.Links, Link{FromNode: l.FromNode, FromPin: l.FromPin, ToNode: l.ToNode, ToPin: l.ToPin})
	}
	return g, nil
}
