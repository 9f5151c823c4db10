package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/dwindle/internal/config"
)

// printConfigPath prints the config file path
func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

// showConfig prints the configuration as dwindle would load it.
func showConfig() error {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := colorprofile.NewWriter(os.Stdout, os.Environ())
	path, _ := config.GetConfigPath()
	fmt.Fprintln(out, dimStyle.Render("# "+path))
	_, err = out.Write(data)
	return err
}

// editConfigFile opens the config file in $EDITOR
func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if err := config.WriteDefault(configPath); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "vi", "nano", "emacs"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Please set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	if _, err := config.LoadFile(configPath); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Warning: "+err.Error()))
	}
	return nil
}

// resetConfigToDefaults resets the configuration file to default settings.
// Confirmation is only asked for when stdin is a terminal.
func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteDefault(configPath); err != nil {
		return err
	}

	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: dwindle config edit")
	return nil
}
