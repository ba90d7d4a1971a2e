package loaders

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/bindplan/engine/math"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// LayoutExtension is the suffix of vertex layout declaration files.
const LayoutExtension = ".layout.toml"

type layoutFile struct {
	Buffers []layoutBuffer `toml:"buffer"`
}

type layoutBuffer struct {
	Name    string         `toml:"name"`
	Size    uint32         `toml:"size"`
	Members []layoutMember `toml:"member"`
}

type layoutMember struct {
	Name      string  `toml:"name"`
	Offset    *uint32 `toml:"offset"`
	Type      string  `toml:"type"`
	ArraySize uint32  `toml:"array_size"`
}

// LayoutLoader reads vertex record declarations, one [[buffer]] table per
// vertex buffer in binding order.
type LayoutLoader struct{}

func (ll *LayoutLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeVertexLayout {
		return nil, fmt.Errorf("layout loader cannot load %s assets", assetType)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	types, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeVertexLayout,
		Name:     strings.TrimSuffix(filepath.Base(path), LayoutExtension),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     types,
	}, nil
}

func (ll *LayoutLoader) Unload(*metadata.Resource) error {
	return nil
}

// ParseLayout decodes vertex layout declarations. A member without offset
// starts where the members declared before it end. A buffer without size
// ends after its furthest member, rounded up to 4 bytes.
func ParseLayout(data []byte) ([]*metadata.VertexType, error) {
	var file layoutFile
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, err
	}
	if len(file.Buffers) == 0 {
		return nil, fmt.Errorf("no [[buffer]] declared")
	}

	types := make([]*metadata.VertexType, 0, len(file.Buffers))
	for i, b := range file.Buffers {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("buffer%d", i)
		}
		vt := &metadata.VertexType{
			Name:    name,
			Members: make(map[string]metadata.VertexMemberInfo, len(b.Members)),
		}
		var end uint32
		for _, m := range b.Members {
			if m.Name == "" {
				return nil, fmt.Errorf("buffer %s: member without name", name)
			}
			if _, dup := vt.Members[m.Name]; dup {
				return nil, fmt.Errorf("buffer %s: member %s declared twice", name, m.Name)
			}
			typ, err := metadata.ParseVertexMemberType(m.Type)
			if err != nil {
				return nil, fmt.Errorf("buffer %s: member %s: %w", name, m.Name, err)
			}
			member := metadata.VertexMemberInfo{Offset: end, Type: typ, ArraySize: m.ArraySize}
			if member.ArraySize == 0 {
				member.ArraySize = 1
			}
			if m.Offset != nil {
				member.Offset = *m.Offset
			}
			vt.Members[m.Name] = member
			end = max(end, member.Offset+member.Size())
		}
		vt.Size = b.Size
		if vt.Size == 0 {
			vt.Size = math.AlignUp(end, 4)
		}
		if err := vt.Validate(); err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
	return types, nil
}
