/*
bindplan reconciles a WGSL vertex shader with declared vertex buffer layouts
and prints the resulting binding plan for Vulkan and WebGPU pipelines.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/bindplan/engine/core"
	"github.com/spaghettifunk/bindplan/engine/systems"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	assetRoot := flag.String("assets", "", "asset root, overrides asset_root")
	shader := flag.String("shader", "", "name or path of the WGSL shader")
	layout := flag.String("layout", "", "name or path of the vertex layout declaration")
	entry := flag.String("entry", "", "vertex entry point, overrides entry_point")
	watch := flag.Bool("watch", false, "rebuild the plan whenever the shader or the layout changes")
	flag.Parse()

	if *shader == "" || *layout == "" {
		flag.Usage()
		os.Exit(2)
	}

	config := core.DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = core.LoadConfig(*configPath); err != nil {
			core.LogFatal("%s", err)
		}
	}
	if *assetRoot != "" {
		config.AssetRoot = *assetRoot
	}
	if *entry != "" {
		config.EntryPoint = *entry
	}
	if err := core.SetLogLevel(config.LogLevel); err != nil {
		core.LogFatal("%s", err)
	}

	if err := run(config, *shader, *layout, *watch); err != nil {
		core.LogFatal("%s", err)
	}
}

func run(config *core.Config, shader, layout string, watch bool) error {
	if !core.EventInitialize() {
		return fmt.Errorf("event system already initialized")
	}
	defer core.EventShutdown()

	sm, err := systems.NewSystemManager(config)
	if err != nil {
		return err
	}
	defer sm.Shutdown()

	plan, err := sm.Build(shader, layout)
	if err != nil {
		return err
	}
	if err := printPlan(os.Stdout, plan); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	core.EventRegister(core.EVENT_CODE_PLAN_REBUILT, sm, func(code core.SystemEventCode, sender, listenerInst interface{}, data core.EventContext) bool {
		if p, ok := sm.Bindings().Plan(data.Name); ok {
			if err := printPlan(os.Stdout, p); err != nil {
				core.LogError("%s", err)
			}
		}
		return true
	})
	sm.Watch(plan.Name, layout)
	core.LogInfo("watching %s for changes", config.AssetRoot)

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigCh
	return nil
}

func printPlan(w io.Writer, plan *systems.Plan) error {
	fmt.Fprintf(w, "plan %s (%s)\n", plan.Name, plan.ID)
	fmt.Fprintln(w, "vertex buffers:")
	for i, b := range plan.Buffers {
		name := ""
		if types := plan.Definition.Types(); i < len(types) {
			name = types[i].Name
		}
		fmt.Fprintf(w, "  %d %-12s stride=%d rate=%s\n", b.Buffer, name, b.Stride, b.Rate)
	}
	fmt.Fprintln(w, "attributes:")
	for _, a := range plan.Attributes {
		fmt.Fprintf(w, "  %s\n", a)
	}
	fmt.Fprintln(w, "descriptor sets:")
	for set, l := range plan.Sets {
		fmt.Fprintf(w, "  set %d\n", set)
		for _, b := range l.BindingIndices() {
			fmt.Fprintf(w, "    binding %d: %s\n", b, l.Bindings[b])
		}
	}

	layouts, groups, err := plan.WebGPU()
	if err != nil {
		// Not every vulkan format has a WebGPU equivalent.
		core.LogWarn("plan %s has no WebGPU form: %s", plan.Name, err)
		return nil
	}
	fmt.Fprintln(w, "webgpu:")
	for i, l := range layouts {
		fmt.Fprintf(w, "  buffer %d stride=%d step=%s\n", i, l.ArrayStride, l.StepMode)
		for _, a := range l.Attributes {
			fmt.Fprintf(w, "    @location(%d) %s offset=%d\n", a.ShaderLocation, a.Format, a.Offset)
		}
	}
	for _, g := range groups {
		fmt.Fprintf(w, "  %s: %d entries\n", g.Label, len(g.Entries))
	}
	return nil
}
