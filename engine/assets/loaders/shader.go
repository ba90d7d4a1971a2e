package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/renderer/descriptor"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

// ShaderReflection is what a pipeline built from a WGSL module expects.
type ShaderReflection struct {
	// EntryPoint is the vertex entry point the inputs were taken from.
	EntryPoint string
	// Inputs are the vertex inputs, in declared order.
	Inputs metadata.ShaderInterface
	// Sets holds one layout per bind group, gaps included.
	Sets []descriptor.SetLayout
}

type ShaderLoader struct {
	// EntryPoint selects the vertex entry point. Empty picks the first one.
	EntryPoint string
}

// Load reads and reflects a WGSL file. A non-empty string in params
// overrides the loader's entry point.
func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeShader {
		return nil, fmt.Errorf("shader loader cannot load %s assets", assetType)
	}
	entry := sl.EntryPoint
	if e, ok := params.(string); ok && e != "" {
		entry = e
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reflection, err := ReflectWGSL(string(data), entry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeShader,
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     reflection,
	}, nil
}

func (sl *ShaderLoader) Unload(*metadata.Resource) error {
	return nil
}

// ReflectWGSL parses a WGSL module and extracts the inputs of the given
// vertex entry point along with every resource binding of the module.
func ReflectWGSL(source, entryPoint string) (*ShaderReflection, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, err
	}

	var ep *ir.EntryPoint
	for i := range module.EntryPoints {
		candidate := &module.EntryPoints[i]
		if candidate.Stage != ir.StageVertex {
			continue
		}
		if entryPoint == "" || candidate.Name == entryPoint {
			ep = candidate
			break
		}
	}
	if ep == nil {
		return nil, fmt.Errorf("%w: no vertex entry point named %q", core.ErrEntryPointNotFound, entryPoint)
	}

	inputs, err := vertexInputs(module, &ep.Function)
	if err != nil {
		return nil, fmt.Errorf("entry point %s: %w", ep.Name, err)
	}
	sets, err := resourceSets(module)
	if err != nil {
		return nil, err
	}
	return &ShaderReflection{EntryPoint: ep.Name, Inputs: inputs, Sets: sets}, nil
}

func typeInner(module *ir.Module, handle ir.TypeHandle) (ir.TypeInner, error) {
	if int(handle) >= len(module.Types) {
		return nil, fmt.Errorf("type handle %d out of range", handle)
	}
	return module.Types[handle].Inner, nil
}

// vertexInputs collects the @location arguments of fn. Struct arguments
// contribute their @location members.
func vertexInputs(module *ir.Module, fn *ir.Function) (metadata.ShaderInterface, error) {
	var inputs metadata.ShaderInterface
	add := func(name string, handle ir.TypeHandle, binding *ir.Binding) error {
		if binding == nil {
			return nil
		}
		loc, ok := (*binding).(ir.LocationBinding)
		if !ok {
			return nil
		}
		inner, err := typeInner(module, handle)
		if err != nil {
			return err
		}
		format, locations, err := inputFormat(inner)
		if err != nil {
			return fmt.Errorf("input %s: %w", name, err)
		}
		inputs = append(inputs, metadata.ShaderInterfaceElement{
			Name:     name,
			Location: metadata.LocationRange{Start: loc.Location, End: loc.Location + locations},
			Format:   format,
		})
		return nil
	}

	for _, arg := range fn.Arguments {
		if arg.Binding != nil {
			if err := add(arg.Name, arg.Type, arg.Binding); err != nil {
				return nil, err
			}
			continue
		}
		inner, err := typeInner(module, arg.Type)
		if err != nil {
			return nil, err
		}
		st, ok := inner.(ir.StructType)
		if !ok {
			continue
		}
		for _, m := range st.Members {
			if err := add(m.Name, m.Type, m.Binding); err != nil {
				return nil, err
			}
		}
	}
	return inputs, nil
}

// inputFormat returns the per-location format of an input and the number
// of locations it spans. Matrices take one location per column.
func inputFormat(inner ir.TypeInner) (vk.Format, uint32, error) {
	var scalar ir.ScalarType
	var components, locations uint32 = 1, 1
	switch t := inner.(type) {
	case ir.ScalarType:
		scalar = t
	case ir.VectorType:
		scalar, components = t.Scalar, uint32(t.Size)
	case ir.MatrixType:
		scalar, components, locations = t.Scalar, uint32(t.Rows), uint32(t.Columns)
	default:
		return vk.FormatUndefined, 0, fmt.Errorf("%w: %T cannot be a vertex input", core.ErrUnsupportedFormat, inner)
	}

	var kind metadata.ScalarKind
	switch scalar.Kind {
	case ir.ScalarSint:
		kind = metadata.ScalarKindSint
	case ir.ScalarUint:
		kind = metadata.ScalarKindUint
	case ir.ScalarFloat:
		kind = metadata.ScalarKindFloat
	default:
		return vk.FormatUndefined, 0, fmt.Errorf("%w: scalar kind %d cannot be a vertex input", core.ErrUnsupportedFormat, scalar.Kind)
	}
	format := metadata.FormatForComponents(kind, uint32(scalar.Width), components)
	if format == vk.FormatUndefined {
		return vk.FormatUndefined, 0, fmt.Errorf("%w: no format for %d components of %d bytes", core.ErrUnsupportedFormat, components, scalar.Width)
	}
	return format, locations, nil
}

// resourceSets groups the bound globals of the module by @group. Every
// binding is assumed visible to all the stages the module has entry points for.
func resourceSets(module *ir.Module) ([]descriptor.SetLayout, error) {
	var stages vk.ShaderStageFlags
	for _, ep := range module.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			stages |= vk.ShaderStageFlags(vk.ShaderStageVertexBit)
		case ir.StageFragment:
			stages |= vk.ShaderStageFlags(vk.ShaderStageFragmentBit)
		case ir.StageCompute:
			stages |= vk.ShaderStageFlags(vk.ShaderStageComputeBit)
		}
	}

	var sets []descriptor.SetLayout
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		desc, err := globalDescriptor(module, gv)
		if err != nil {
			return nil, fmt.Errorf("@group(%d) @binding(%d) %s: %w", gv.Binding.Group, gv.Binding.Binding, gv.Name, err)
		}
		desc.Stages = stages
		for uint32(len(sets)) <= gv.Binding.Group {
			sets = append(sets, descriptor.SetLayout{Bindings: map[uint32]metadata.DescriptorDesc{}})
		}
		sets[gv.Binding.Group].Bindings[gv.Binding.Binding] = desc
	}
	return sets, nil
}

func globalDescriptor(module *ir.Module, gv ir.GlobalVariable) (metadata.DescriptorDesc, error) {
	desc := metadata.DescriptorDesc{ArrayCount: 1}
	inner, err := typeInner(module, gv.Type)
	if err != nil {
		return desc, err
	}
	if arr, ok := inner.(ir.BindingArrayType); ok {
		if arr.Size == nil {
			return desc, fmt.Errorf("unbounded binding arrays are not supported")
		}
		desc.ArrayCount = *arr.Size
		if inner, err = typeInner(module, arr.Base); err != nil {
			return desc, err
		}
	}

	switch gv.Space {
	case ir.SpaceUniform:
		desc.Type = vk.DescriptorTypeUniformBuffer
		desc.ReadOnly = true
	case ir.SpaceStorage:
		desc.Type = vk.DescriptorTypeStorageBuffer
		desc.ReadOnly = gv.Access == ir.StorageRead
	case ir.SpaceHandle:
		switch t := inner.(type) {
		case ir.SamplerType:
			desc.Type = vk.DescriptorTypeSampler
			desc.ReadOnly = true
		case ir.ImageType:
			switch t.Class {
			case ir.ImageClassSampled, ir.ImageClassDepth:
				desc.Type = vk.DescriptorTypeSampledImage
				desc.ReadOnly = true
			case ir.ImageClassStorage:
				desc.Type = vk.DescriptorTypeStorageImage
				desc.ReadOnly = t.StorageAccess == ir.StorageAccessRead
			default:
				return desc, fmt.Errorf("image class %d is not supported", t.Class)
			}
		default:
			return desc, fmt.Errorf("handle of type %T is not supported", inner)
		}
	default:
		return desc, fmt.Errorf("address space %d cannot be bound", gv.Space)
	}
	return desc, nil
}
