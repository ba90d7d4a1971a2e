package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/bindplan/engine/assets/loaders"
	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/renderer/metadata"
)

type AssetInfo struct {
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the shaders and vertex layouts under an asset root
// and fires change events while the files are edited.
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Initialize indexes assetsDir and starts watching it. entryPoint is the
// vertex entry point the shader loader reflects by default.
func (am *AssetManager) Initialize(assetsDir, entryPoint string) error {
	// Register loaders
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{EntryPoint: entryPoint})
	am.registerLoader(metadata.ResourceTypeVertexLayout, &loaders.LayoutLoader{})

	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}
	am.mutex.Lock()
	am.started = true
	am.mutex.Unlock()
	go am.start()
	return nil
}

// Shutdown stops watching and waits for the watch loop to exit.
func (am *AssetManager) Shutdown() {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		am.fsnotify.Close()
		return
	}
	close(am.done)
	<-am.stopped
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.closed() {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name, false)
}

func (am *AssetManager) closed() bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return am.isClosed
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Assets lists the indexed assets of the given type, sorted by path.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var out []AssetInfo
	for _, a := range am.assets {
		if a.Type == resourceType {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// find looks an asset up by path, then by name. When several assets share
// the name the one with the smallest path wins. Callers hold the lock.
func (am *AssetManager) find(name string, resourceType metadata.ResourceType) (AssetInfo, bool) {
	if a, ok := am.assets[filepath.Clean(name)]; ok && a.Type == resourceType {
		return a, true
	}
	var found AssetInfo
	ok := false
	for _, a := range am.assets {
		if a.Type != resourceType || a.Name != name {
			continue
		}
		if !ok || a.Path < found.Path {
			found, ok = a, true
		}
	}
	return found, ok
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	am.mutex.RLock()
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.RUnlock()
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	am.mutex.RLock()
	asset, exists := am.find(name, resourceType)
	am.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("asset not found: %s", name)
	}

	res, err := loader.Load(asset.Path, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	asset.LastLoaded = time.Now()
	am.assets[asset.Path] = asset // Update the loaded time
	am.mutex.Unlock()
	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[asset.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Unload(asset)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogError("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name, true)
			}
			// Can't stat a deleted path, so try to drop it from both the index
			// and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way. Files created before the watch of
// a new directory is in place are picked up by the walk.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath, false)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string, notify bool) {
	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}
	info := AssetInfo{
		Name: assetName(path),
		Path: path,
		Type: assetType,
	}

	am.mutex.Lock()
	if prev, ok := am.assets[path]; ok {
		info.LastLoaded = prev.LastLoaded
	}
	am.assets[path] = info
	am.mutex.Unlock()

	if !notify {
		return
	}
	code := core.EVENT_CODE_SHADER_CHANGED
	if assetType == metadata.ResourceTypeVertexLayout {
		code = core.EVENT_CODE_LAYOUT_CHANGED
	}
	core.LogDebug("%s changed: %s", assetType, path)
	core.EventFire(code, am, core.EventContext{Path: path, Name: info.Name})
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	path = filepath.Clean(path)
	am.mutex.Lock()
	info, ok := am.assets[path]
	delete(am.assets, path)
	am.mutex.Unlock()

	if ok {
		core.EventFire(core.EVENT_CODE_ASSET_REMOVED, am, core.EventContext{Path: path, Name: info.Name})
	}
}

func determineAssetType(path string) metadata.ResourceType {
	if strings.HasSuffix(path, loaders.LayoutExtension) {
		return metadata.ResourceTypeVertexLayout
	}
	switch filepath.Ext(path) {
	case ".wgsl":
		return metadata.ResourceTypeShader
	default:
		return metadata.ResourceTypeNone
	}
}

func assetName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, loaders.LayoutExtension) {
		return strings.TrimSuffix(base, loaders.LayoutExtension)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
