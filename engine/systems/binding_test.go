package systems

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/bindplan/engine/assets"
	"github.com/spaghettifunk/bindplan/engine/assets/loaders"
	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/renderer/descriptor"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
	"github.com/spaghettifunk/bindplan/engine/renderer/vertex"
)

const testdata = "../assets/testdata"

type fakeBuffer struct {
	records int
}

func (b *fakeBuffer) Handle() vk.Buffer { return vk.NullBuffer }
func (b *fakeBuffer) Size() uint64      { return uint64(b.records) * 16 }
func (b *fakeBuffer) Len() int          { return b.records }

type fakeImage struct{}

func (fakeImage) Handle() vk.Image { return vk.NullImage }

type fakeSet struct {
	descs   []*metadata.DescriptorDesc
	buffers []metadata.BufferAccess
	images  []metadata.ImageAccess
}

func (s *fakeSet) Handle() vk.DescriptorSet {
	var h vk.DescriptorSet
	return h
}

func (s *fakeSet) NumBindings() int { return len(s.descs) }

func (s *fakeSet) Descriptor(binding int) (metadata.DescriptorDesc, bool) {
	if binding < 0 || binding >= len(s.descs) || s.descs[binding] == nil {
		return metadata.DescriptorDesc{}, false
	}
	return *s.descs[binding], true
}

func (s *fakeSet) Buffers() []metadata.BufferAccess { return s.buffers }
func (s *fakeSet) Images() []metadata.ImageAccess   { return s.images }

var allStages = vk.ShaderStageFlags(vk.ShaderStageVertexBit) | vk.ShaderStageFlags(vk.ShaderStageFragmentBit)

func desc(t vk.DescriptorType, readOnly bool) *metadata.DescriptorDesc {
	return &metadata.DescriptorDesc{Type: t, ArrayCount: 1, Stages: allStages, ReadOnly: readOnly}
}

// basicSets returns descriptor sets matching the bindings of basic.wgsl.
func basicSets() []descriptor.DescriptorSet {
	camera := &fakeBuffer{records: 4}
	weights := &fakeBuffer{records: 64}
	return []descriptor.DescriptorSet{
		&fakeSet{
			descs:   []*metadata.DescriptorDesc{desc(vk.DescriptorTypeUniformBuffer, false)},
			buffers: []metadata.BufferAccess{camera},
		},
		&fakeSet{
			descs:  []*metadata.DescriptorDesc{desc(vk.DescriptorTypeSampledImage, true), desc(vk.DescriptorTypeSampler, true)},
			images: []metadata.ImageAccess{fakeImage{}},
		},
		&fakeSet{
			descs:   []*metadata.DescriptorDesc{nil, nil, nil, desc(vk.DescriptorTypeStorageBuffer, true)},
			buffers: []metadata.BufferAccess{weights},
		},
	}
}

func loadBasic(t *testing.T) (*loaders.ShaderReflection, []*metadata.VertexType) {
	t.Helper()
	src, err := os.ReadFile(filepath.Join(testdata, "shaders", "basic.wgsl"))
	if err != nil {
		t.Fatal(err)
	}
	shader, err := loaders.ReflectWGSL(string(src), "vs_main")
	if err != nil {
		t.Fatalf("ReflectWGSL() error = %v", err)
	}
	layout, err := os.ReadFile(filepath.Join(testdata, "layouts", "mesh.layout.toml"))
	if err != nil {
		t.Fatal(err)
	}
	types, err := loaders.ParseLayout(layout)
	if err != nil {
		t.Fatalf("ParseLayout() error = %v", err)
	}
	return shader, types
}

func newTestSystem(t *testing.T, maxSets int) *BindingSystem {
	t.Helper()
	bs, err := NewBindingSystem(&BindingSystemConfig{MaxBoundSets: maxSets, WarnShadowedAttributes: true})
	if err != nil {
		t.Fatalf("NewBindingSystem() error = %v", err)
	}
	t.Cleanup(func() { bs.Shutdown() })
	return bs
}

func TestNewBindingSystem(t *testing.T) {
	if _, err := NewBindingSystem(&BindingSystemConfig{}); err == nil {
		t.Error("NewBindingSystem() without bound sets should fail")
	}
	cfg := NewBindingSystemConfig(core.DefaultConfig())
	if cfg.MaxBoundSets != core.DefaultMaxBoundSets || !cfg.WarnShadowedAttributes {
		t.Errorf("NewBindingSystemConfig() = %+v", cfg)
	}
}

func TestPrepare(t *testing.T) {
	bs := newTestSystem(t, 4)
	shader, types := loadBasic(t)
	before := core.MetricsSnapshotNow()

	plan, err := bs.Prepare("basic", shader, types)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(plan.Buffers) != 2 || len(plan.Attributes) != 3 || len(plan.Sets) != 3 {
		t.Fatalf("plan has %d buffers, %d attributes, %d sets", len(plan.Buffers), len(plan.Attributes), len(plan.Sets))
	}
	if plan.Buffers[0].Stride != 12 || plan.Buffers[1].Stride != 32 {
		t.Errorf("strides = %d, %d", plan.Buffers[0].Stride, plan.Buffers[1].Stride)
	}
	want := []metadata.AttributeBinding{
		{Location: 0, Buffer: 0, Offset: 0, Format: vk.FormatR32g32b32Sfloat},
		{Location: 1, Buffer: 1, Offset: 0, Format: vk.FormatR32g32b32a32Sfloat},
		{Location: 2, Buffer: 1, Offset: 16, Format: vk.FormatR32g32Sfloat},
	}
	for i, a := range plan.Attributes {
		if a != want[i] {
			t.Errorf("attribute %d = %s, want %s", i, a, want[i])
		}
	}
	if plan.Vulkan == nil || len(plan.Vulkan.DescriptorSets) != 3 {
		t.Errorf("vulkan config = %+v", plan.Vulkan)
	}

	layouts, groups, err := plan.WebGPU()
	if err != nil {
		t.Fatalf("WebGPU() error = %v", err)
	}
	if len(layouts) != 2 || len(groups) != 3 {
		t.Errorf("WebGPU() = %d vertex layouts, %d bind groups", len(layouts), len(groups))
	}

	if got, ok := bs.Plan("basic"); !ok || got != plan {
		t.Error("Plan(basic) does not return the prepared plan")
	}
	if after := core.MetricsSnapshotNow(); after.PlansBuilt != before.PlansBuilt+1 {
		t.Errorf("PlansBuilt = %d, want %d", after.PlansBuilt, before.PlansBuilt+1)
	}

	again, err := bs.Prepare("basic", shader, types)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID == plan.ID {
		t.Error("rebuilt plan kept the old identifier")
	}
}

func TestPrepareErrors(t *testing.T) {
	shader, types := loadBasic(t)

	t.Run("missing attribute", func(t *testing.T) {
		bs := newTestSystem(t, 4)
		before := core.MetricsSnapshotNow()
		_, err := bs.Prepare("basic", shader, types[:1])
		var missing *vertex.MissingAttributeError
		if !errors.As(err, &missing) || missing.Name != "color" {
			t.Fatalf("Prepare() error = %v, want missing color", err)
		}
		if after := core.MetricsSnapshotNow(); after.MissingAttributes != before.MissingAttributes+1 {
			t.Error("MissingAttributes not counted")
		}
		if _, ok := bs.Plan("basic"); ok {
			t.Error("failed plan was stored")
		}
	})

	t.Run("format mismatch", func(t *testing.T) {
		bs := newTestSystem(t, 4)
		before := core.MetricsSnapshotNow()
		wrong, err := loaders.ParseLayout([]byte(`
[[buffer]]
name = "Everything"
  [[buffer.member]]
  name = "position"
  type = "f32x3"
  [[buffer.member]]
  name = "color"
  type = "u8x4"
  [[buffer.member]]
  name = "uv"
  type = "f32x2"
`))
		if err != nil {
			t.Fatal(err)
		}
		_, err = bs.Prepare("basic", shader, wrong)
		if !errors.Is(err, vertex.ErrIncompatibleVertexDefinition) {
			t.Fatalf("Prepare() error = %v, want an incompatible definition", err)
		}
		if after := core.MetricsSnapshotNow(); after.FormatMismatches != before.FormatMismatches+1 {
			t.Error("FormatMismatches not counted")
		}
	})

	t.Run("nil vertex type", func(t *testing.T) {
		bs := newTestSystem(t, 4)
		if _, err := bs.Prepare("basic", shader, append(types[:1:1], nil)); !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("Prepare() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("too many sets", func(t *testing.T) {
		bs := newTestSystem(t, 2)
		if _, err := bs.Prepare("basic", shader, types); !errors.Is(err, core.ErrTooManyDescriptorSets) {
			t.Errorf("Prepare() error = %v, want ErrTooManyDescriptorSets", err)
		}
	})
}

func TestSubmit(t *testing.T) {
	bs := newTestSystem(t, 4)
	shader, types := loadBasic(t)
	plan, err := bs.Prepare("basic", shader, types)
	if err != nil {
		t.Fatal(err)
	}

	before := core.MetricsSnapshotNow()
	sets := descriptor.Sets(basicSets()...)
	sub, err := bs.Submit(plan, sets, []vertex.TypedBuffer{&fakeBuffer{records: 5}, &fakeBuffer{records: 3}})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.PlanID != plan.ID {
		t.Errorf("PlanID = %s, want %s", sub.PlanID, plan.ID)
	}
	if len(sub.Sets) != 3 || len(sub.VertexBuffers) != 2 {
		t.Errorf("Submit() = %d sets, %d vertex buffers", len(sub.Sets), len(sub.VertexBuffers))
	}
	if sub.Vertices != 3 || sub.Instances != 1 {
		t.Errorf("Submit() = %d vertices, %d instances; want 3, 1", sub.Vertices, sub.Instances)
	}
	if buffers, images := sub.Resources.Len(); buffers != 2 || images != 1 {
		t.Errorf("Resources = %d buffers, %d images; want 2, 1", buffers, images)
	}
	if sets.SetCount() != 0 {
		t.Error("Submit() did not consume the collection")
	}

	after := core.MetricsSnapshotNow()
	if after.Submissions != before.Submissions+1 ||
		after.SetsFlattened != before.SetsFlattened+3 ||
		after.VerticesSubmitted != before.VerticesSubmitted+3 {
		t.Errorf("metrics before %+v after %+v", before, after)
	}

	if _, err := bs.Submit(plan, sets, []vertex.TypedBuffer{&fakeBuffer{records: 5}, &fakeBuffer{records: 3}}); err == nil {
		t.Error("Submit() with a consumed collection should fail")
	}
}

func TestSubmitErrors(t *testing.T) {
	bs := newTestSystem(t, 4)
	shader, types := loadBasic(t)
	plan, err := bs.Prepare("basic", shader, types)
	if err != nil {
		t.Fatal(err)
	}
	buffers := []vertex.TypedBuffer{&fakeBuffer{records: 5}, &fakeBuffer{records: 3}}

	t.Run("missing set", func(t *testing.T) {
		before := core.MetricsSnapshotNow()
		sets := descriptor.Sets(basicSets()[:1]...)
		_, err := bs.Submit(plan, sets, buffers)
		var mismatch *descriptor.SetsMismatchError
		if !errors.As(err, &mismatch) || mismatch.Set != 1 {
			t.Fatalf("Submit() error = %v, want a mismatch at set 1", err)
		}
		if sets.SetCount() != 1 {
			t.Error("failed Submit() consumed the collection")
		}
		if after := core.MetricsSnapshotNow(); after.SetMismatches != before.SetMismatches+1 {
			t.Error("SetMismatches not counted")
		}
	})

	t.Run("consumed element", func(t *testing.T) {
		inner := descriptor.Sets(basicSets()...)
		spent := descriptor.Single(basicSets()[0])
		if _, err := spent.IntoList(); err != nil {
			t.Fatal(err)
		}
		if _, err := bs.Submit(plan, descriptor.Join(inner, spent), buffers); err == nil {
			t.Fatal("Submit() with a consumed element should fail")
		}
		if inner.SetCount() != 3 {
			t.Errorf("failed Submit() left %d sets in the live element, want 3", inner.SetCount())
		}
	})

	t.Run("nil set", func(t *testing.T) {
		all := basicSets()
		sets := descriptor.Sets(all[0], nil, all[2])
		_, err := bs.Submit(plan, sets, buffers)
		var mismatch *descriptor.SetsMismatchError
		if !errors.As(err, &mismatch) || mismatch.Set != 1 {
			t.Fatalf("Submit() error = %v, want a mismatch at set 1", err)
		}
		if sets.SetCount() != 3 {
			t.Error("failed Submit() consumed the collection")
		}
	})

	t.Run("too many sets", func(t *testing.T) {
		all := append(basicSets(), basicSets()...)
		_, err := bs.Submit(plan, descriptor.Sets(all...), buffers)
		if !errors.Is(err, core.ErrTooManyDescriptorSets) {
			t.Errorf("Submit() error = %v, want ErrTooManyDescriptorSets", err)
		}
	})

	t.Run("buffer count", func(t *testing.T) {
		sets := descriptor.Sets(basicSets()...)
		_, err := bs.Submit(plan, sets, buffers[:1])
		if !errors.Is(err, core.ErrBufferCountMismatch) {
			t.Fatalf("Submit() error = %v, want ErrBufferCountMismatch", err)
		}
		if sets.SetCount() != 3 {
			t.Error("failed Submit() consumed the collection")
		}
	})
}

func TestWatchRebuildsPlan(t *testing.T) {
	core.EventInitialize()
	defer core.EventShutdown()

	root := t.TempDir()
	for _, f := range []string{"shaders/basic.wgsl", "layouts/mesh.layout.toml"} {
		data, err := os.ReadFile(filepath.Join(testdata, f))
		if err != nil {
			t.Fatal(err)
		}
		dst := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(root, "vs_main"); err != nil {
		t.Fatal(err)
	}
	defer am.Shutdown()

	bs := newTestSystem(t, 4)
	plan, err := bs.Build(am, "basic", "mesh")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	rebuilt := make(chan string, 4)
	listener := new(int)
	core.EventRegister(core.EVENT_CODE_PLAN_REBUILT, listener, func(code core.SystemEventCode, sender, listenerInst interface{}, data core.EventContext) bool {
		select {
		case rebuilt <- data.Name:
		default:
		}
		return true
	})
	bs.Watch(am, "basic", "mesh")

	layout := filepath.Join(root, "layouts", "mesh.layout.toml")
	data, err := os.ReadFile(layout)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(layout, append(data, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-rebuilt:
		if name != "basic" {
			t.Errorf("rebuilt plan %s, want basic", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("plan was not rebuilt")
	}
	current, ok := bs.Plan("basic")
	if !ok || current.ID == plan.ID {
		t.Error("Plan(basic) still returns the old plan")
	}
}
