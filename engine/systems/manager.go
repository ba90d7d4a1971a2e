package systems

import (
	"github.com/spaghettifunk/bindplan/engine/assets"
	"github.com/spaghettifunk/bindplan/engine/core"
)

// SystemManager owns the asset index and the binding system built on top of it.
type SystemManager struct {
	assetManager  *assets.AssetManager
	bindingSystem *BindingSystem
}

func NewSystemManager(config *core.Config) (*SystemManager, error) {
	am, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}
	if err := am.Initialize(config.AssetRoot, config.EntryPoint); err != nil {
		return nil, err
	}
	bs, err := NewBindingSystem(NewBindingSystemConfig(config))
	if err != nil {
		am.Shutdown()
		return nil, err
	}
	return &SystemManager{
		assetManager:  am,
		bindingSystem: bs,
	}, nil
}

func (sm *SystemManager) Assets() *assets.AssetManager {
	return sm.assetManager
}

func (sm *SystemManager) Bindings() *BindingSystem {
	return sm.bindingSystem
}

// Build prepares the plan of the shader against the layout.
func (sm *SystemManager) Build(shader, layout string) (*Plan, error) {
	return sm.bindingSystem.Build(sm.assetManager, shader, layout)
}

// Watch keeps the plan of the shader up to date with the files on disk.
func (sm *SystemManager) Watch(shader, layout string) {
	sm.bindingSystem.Watch(sm.assetManager, shader, layout)
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.bindingSystem.Shutdown(); err != nil {
		return err
	}
	sm.assetManager.Shutdown()
	return nil
}
