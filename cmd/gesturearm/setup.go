package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.bug.st/serial"

	"github.com/tkrish/gesturearm/pkg/arm"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("GestureArm Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := arm.DefaultConfig()
	if existing, err := arm.LoadConfig(); err == nil {
		cfg = *existing
	}

	// Step 1: actuator port
	port, err := selectPort()
	if err != nil {
		return err
	}
	cfg.Port = port

	// Step 2: camera index
	camera, err := askCamera(cfg.CameraID)
	if err != nil {
		return err
	}
	cfg.CameraID = camera

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", arm.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start gesture control with: " + headerStyle.Render("gesturearm run"))

	return nil
}

func selectPort() (string, error) {
	fmt.Println("Scanning for serial ports...")

	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}

	var options []huh.Option[string]
	for _, p := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(p, "Bluetooth") {
			continue
		}
		options = append(options, huh.NewOption(p, p))
	}

	if len(options) == 0 {
		fmt.Println("No serial ports found.")
		fmt.Println("Make sure the actuator board is connected, or use 'gesturearm run --dry-run'.")
		os.Exit(1)
	}

	options = append(options, huh.NewOption("None (dry run only)", ""))

	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port is the actuator board on?").
				Description("The board resets when the port opens; pick the USB serial device").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return port, nil
}

func askCamera(current int) (int, error) {
	value := strconv.Itoa(current)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Camera index").
				Description("0 is the default camera").
				Value(&value).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative number")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return n, nil
}
