package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/savekeeper/internal/client/api"
)

func (a *App) printSave(s *api.Save) {
	fmt.Printf("id:          %s\n", s.ID)
	fmt.Printf("name:        %s\n", s.Name)
	if s.Description != "" {
		fmt.Printf("description: %s\n", s.Description)
	}
	fmt.Printf("tool:        %s\n", s.ToolID)
	fmt.Printf("owner:       %s\n", s.OwnerID)
	if s.Locked && s.LockedByID != nil {
		fmt.Printf("locked by:   %s\n", *s.LockedByID)
	} else {
		fmt.Println("locked:      no")
	}
	if len(s.Data) > 0 {
		fmt.Printf("data:        %s\n", s.Data)
	}
}

func (a *App) list(ctx context.Context) {
	saves, err := a.client.ListSaves(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(saves) == 0 {
		fmt.Println("No saves")
		return
	}
	for _, s := range saves {
		status := ""
		if s.Locked {
			status = " [locked]"
		}
		fmt.Printf("%s  %s%s\n", s.ID, s.Name, status)
	}
}

func (a *App) show(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: show <id>")
		return
	}
	save, err := a.client.GetSave(ctx, args[0])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	a.printSave(save)
}

func (a *App) create(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Save name", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	toolID, err := GetSimpleText(a.reader, "Tool id", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	data, err := GetMultiline(a.reader, "Data (JSON, optional)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	var payload json.RawMessage
	if data != "" {
		payload = json.RawMessage(data)
	}

	save, err := a.client.CreateSave(ctx, name, description, toolID, payload)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Created save", save.ID)
}

func (a *App) setLock(ctx context.Context, args []string, lock bool) {
	if len(args) == 0 {
		if lock {
			fmt.Println("Usage: lock <id>")
		} else {
			fmt.Println("Usage: unlock <id>")
		}
		return
	}
	if err := a.client.SetLock(ctx, args[0], lock); err != nil {
		fmt.Println("Error:", err)
		return
	}
	if lock {
		fmt.Println("Locked", args[0])
	} else {
		fmt.Println("Unlocked", args[0])
	}
}

func (a *App) edit(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: edit <id>")
		return
	}

	name, err := GetSimpleText(a.reader, "New name (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	description, err := GetSimpleText(a.reader, "New description (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	data, err := GetMultiline(a.reader, "New data (JSON, empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	var patch api.SavePatch
	if name != "" {
		patch.Name = &name
	}
	if description != "" {
		patch.Description = &description
	}
	if data != "" {
		patch.Data = json.RawMessage(data)
	}
	if patch.Name == nil && patch.Description == nil && patch.Data == nil {
		fmt.Println("Nothing to change")
		return
	}

	if err := a.client.EditSave(ctx, args[0], patch); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Updated", args[0])
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: delete <id>")
		return
	}
	if err := a.client.DeleteSave(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Deleted", args[0])
}

func (a *App) listTools(ctx context.Context) {
	tools, err := a.client.ListTools(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, tool := range tools {
		fmt.Printf("%s  %s\n", tool.ID, tool.Name)
	}
}
