package systems

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/gputypes"
	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	"github.com/spaghettifunk/bindplan/engine/assets"
	"github.com/spaghettifunk/bindplan/engine/assets/loaders"
	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/renderer/descriptor"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
	"github.com/spaghettifunk/bindplan/engine/renderer/vertex"
	"github.com/spaghettifunk/bindplan/engine/renderer/vulkan"
	"github.com/spaghettifunk/bindplan/engine/renderer/webgpu"
)

/** @brief Configuration for the binding system. */
type BindingSystemConfig struct {
	/** @brief The maximum number of descriptor sets bound at once. */
	MaxBoundSets int
	/** @brief Log a warning when an attribute name is declared by several vertex buffers. */
	WarnShadowedAttributes bool
}

func NewBindingSystemConfig(config *core.Config) *BindingSystemConfig {
	return &BindingSystemConfig{
		MaxBoundSets:           config.MaxBoundSets,
		WarnShadowedAttributes: config.WarnShadowedAttributes,
	}
}

/**
 * @brief A validated binding plan: how the vertex buffers feed the shader
 * inputs and which descriptor sets the pipeline expects.
 */
type Plan struct {
	/** @brief Unique identifier, regenerated on every rebuild. */
	ID uuid.UUID
	/** @brief The name of the shader the plan was built for. */
	Name string
	/** @brief The vertex types, in buffer order. */
	Definition *vertex.Definition
	/** @brief One binding per vertex buffer. */
	Buffers []metadata.BufferBinding
	/** @brief One attribute per shader input location. */
	Attributes []metadata.AttributeBinding
	/** @brief The descriptor set layouts expected by the pipeline. */
	Sets []descriptor.SetLayout
	/** @brief The vulkan pipeline state derived from the plan. */
	Vulkan *vulkan.VulkanPipelineConfig
}

// WebGPU renders the plan as WebGPU vertex buffer and bind group layouts.
func (p *Plan) WebGPU() ([]gputypes.VertexBufferLayout, []gputypes.BindGroupLayoutDescriptor, error) {
	layouts, err := webgpu.VertexLayouts(p.Buffers, p.Attributes)
	if err != nil {
		return nil, nil, err
	}
	groups, err := webgpu.BindGroupLayouts(p.Sets)
	if err != nil {
		return nil, nil, err
	}
	return layouts, groups, nil
}

/**
 * @brief Everything a draw call needs once a plan has been matched against
 * the descriptor sets and vertex buffers supplied by the caller.
 */
type Submission struct {
	ID     uuid.UUID
	PlanID uuid.UUID
	/** @brief The descriptor set handles, in set order. */
	Sets []vk.DescriptorSet
	/** @brief The vertex buffer handles, in binding order. */
	VertexBuffers []vk.Buffer
	/** @brief The resources referenced by the descriptor sets. */
	Resources *descriptor.ResourceList
	Vertices  uint32
	Instances uint32
}

type watch struct {
	shader string
	layout string
	// layoutName is the layout as it appears in change events.
	layoutName string
}

type BindingSystem struct {
	// This system's configuration.
	Config *BindingSystemConfig

	mutex   sync.RWMutex
	plans   map[string]*Plan
	watches map[string]watch
	assets  *assets.AssetManager
}

func NewBindingSystem(config *BindingSystemConfig) (*BindingSystem, error) {
	if config.MaxBoundSets <= 0 {
		err := fmt.Errorf("NewBindingSystem - config.MaxBoundSets must be greater than 0")
		core.LogError("%s", err)
		return nil, err
	}
	return &BindingSystem{
		Config:  config,
		plans:   make(map[string]*Plan),
		watches: make(map[string]watch),
	}, nil
}

// Prepare reconciles the shader with the vertex types and stores the plan
// under name, replacing any previous one.
func (bs *BindingSystem) Prepare(name string, shader *loaders.ShaderReflection, types []*metadata.VertexType) (*Plan, error) {
	if len(shader.Sets) > bs.Config.MaxBoundSets {
		return nil, fmt.Errorf("%w: shader %s declares %d sets, max is %d",
			core.ErrTooManyDescriptorSets, name, len(shader.Sets), bs.Config.MaxBoundSets)
	}

	for i, t := range types {
		if t == nil {
			return nil, fmt.Errorf("%w: shader %s: vertex type of buffer %d is nil", core.ErrInvalidConfig, name, i)
		}
	}
	def := vertex.NewDefinition(types...)
	if bs.Config.WarnShadowedAttributes {
		for _, s := range def.Shadowed() {
			core.LogWarn("shader %s: attribute %s of buffer %d is hidden by buffer %d", name, s.Name, s.Hidden, s.Used)
		}
	}

	buffers, attributes, err := def.Reconcile(shader.Inputs)
	if err != nil {
		var missing *vertex.MissingAttributeError
		var mismatch *vertex.FormatMismatchError
		switch {
		case errors.As(err, &missing):
			core.Metrics().MissingAttributes.Add(1)
		case errors.As(err, &mismatch):
			core.Metrics().FormatMismatches.Add(1)
		}
		core.LogError("shader %s: %s", name, err)
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	vkConfig, err := vulkan.NewPipelineConfig(buffers, attributes, shader.Sets)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	plan := &Plan{
		ID:         uuid.New(),
		Name:       name,
		Definition: def,
		Buffers:    buffers,
		Attributes: attributes,
		Sets:       shader.Sets,
		Vulkan:     vkConfig,
	}
	bs.mutex.Lock()
	bs.plans[name] = plan
	bs.mutex.Unlock()

	core.Metrics().PlansBuilt.Add(1)
	core.LogInfo("plan %s built for shader %s: %d buffers, %d attributes, %d sets",
		plan.ID, name, len(buffers), len(attributes), len(shader.Sets))
	return plan, nil
}

// Plan returns the last plan built for the named shader.
func (bs *BindingSystem) Plan(name string) (*Plan, bool) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	p, ok := bs.plans[name]
	return p, ok
}

// Submit checks the descriptor sets against the plan, decodes the vertex
// buffers and consumes the collection. Nothing is consumed when it fails.
func (bs *BindingSystem) Submit(plan *Plan, sets descriptor.Collection, buffers []vertex.TypedBuffer) (*Submission, error) {
	if n := sets.SetCount(); n > bs.Config.MaxBoundSets {
		core.Metrics().SetMismatches.Add(1)
		return nil, fmt.Errorf("%w: %d sets supplied, max is %d", core.ErrTooManyDescriptorSets, n, bs.Config.MaxBoundSets)
	}
	if err := descriptor.CheckCompatible(plan.Sets, sets); err != nil {
		core.Metrics().SetMismatches.Add(1)
		core.LogError("plan %s: %s", plan.Name, err)
		return nil, err
	}
	src, err := plan.Definition.Decode(buffers)
	if err != nil {
		return nil, err
	}

	resources := descriptor.Resources(sets)
	list, err := sets.IntoList()
	if err != nil {
		return nil, err
	}

	submission := &Submission{
		ID:            uuid.New(),
		PlanID:        plan.ID,
		Sets:          make([]vk.DescriptorSet, len(list)),
		VertexBuffers: make([]vk.Buffer, len(src.Buffers)),
		Resources:     resources,
		Vertices:      src.Vertices,
		Instances:     src.Instances,
	}
	for i, s := range list {
		submission.Sets[i] = s.Handle()
	}
	for i, b := range src.Buffers {
		submission.VertexBuffers[i] = b.Handle()
	}

	m := core.Metrics()
	m.Submissions.Add(1)
	m.SetsFlattened.Add(uint64(len(list)))
	m.VerticesSubmitted.Add(uint64(src.Vertices))
	core.LogDebug("submission %s: plan %s, %d sets, %d vertices", submission.ID, plan.Name, len(list), src.Vertices)
	return submission, nil
}

// Build loads the shader and the vertex layout from the asset manager and
// prepares a plan named after the shader.
func (bs *BindingSystem) Build(am *assets.AssetManager, shader, layout string) (*Plan, error) {
	shaderRes, err := am.LoadAsset(shader, metadata.ResourceTypeShader, nil)
	if err != nil {
		return nil, err
	}
	layoutRes, err := am.LoadAsset(layout, metadata.ResourceTypeVertexLayout, nil)
	if err != nil {
		return nil, err
	}
	reflection, ok := shaderRes.Data.(*loaders.ShaderReflection)
	if !ok {
		return nil, fmt.Errorf("%w: shader asset %s holds %T", core.ErrUnknown, shader, shaderRes.Data)
	}
	types, ok := layoutRes.Data.([]*metadata.VertexType)
	if !ok {
		return nil, fmt.Errorf("%w: layout asset %s holds %T", core.ErrUnknown, layout, layoutRes.Data)
	}
	return bs.Prepare(shaderRes.Name, reflection, types)
}

// Watch rebuilds the plan of the shader whenever the shader or the layout
// changes on disk. Rebuilds fire EVENT_CODE_PLAN_REBUILT.
func (bs *BindingSystem) Watch(am *assets.AssetManager, shader, layout string) {
	bs.mutex.Lock()
	bs.assets = am
	bs.watches[shader] = watch{
		shader:     shader,
		layout:     layout,
		layoutName: strings.TrimSuffix(filepath.Base(layout), loaders.LayoutExtension),
	}
	bs.mutex.Unlock()

	core.EventRegister(core.EVENT_CODE_SHADER_CHANGED, bs, bs.onAssetChanged)
	core.EventRegister(core.EVENT_CODE_LAYOUT_CHANGED, bs, bs.onAssetChanged)
}

func (bs *BindingSystem) onAssetChanged(code core.SystemEventCode, sender, listenerInst interface{}, data core.EventContext) bool {
	bs.mutex.RLock()
	am := bs.assets
	var affected []watch
	for _, w := range bs.watches {
		if (code == core.EVENT_CODE_SHADER_CHANGED && w.shader == data.Name) ||
			(code == core.EVENT_CODE_LAYOUT_CHANGED && w.layoutName == data.Name) {
			affected = append(affected, w)
		}
	}
	bs.mutex.RUnlock()

	for _, w := range affected {
		plan, err := bs.Build(am, w.shader, w.layout)
		if err != nil {
			core.LogError("rebuilding plan %s after %s changed: %s", w.shader, data.Path, err)
			continue
		}
		core.EventFire(core.EVENT_CODE_PLAN_REBUILT, bs, core.EventContext{Path: data.Path, Name: plan.Name})
	}
	// Other listeners may care about the same file.
	return false
}

func (bs *BindingSystem) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_SHADER_CHANGED, bs)
	core.EventUnregister(core.EVENT_CODE_LAYOUT_CHANGED, bs)

	bs.mutex.Lock()
	defer bs.mutex.Unlock()
	bs.plans = make(map[string]*Plan)
	bs.watches = make(map[string]watch)
	bs.assets = nil
	return nil
}
