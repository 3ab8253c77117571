// Package device provides Android device management via ADB and executes
// screen actions through the UIAutomator2 server.
package device

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// UIAutomator2 package names.
const (
	UIAutomator2Server = "io.appium.uiautomator2.server"
	UIAutomator2Test   = "io.appium.uiautomator2.server.test"
)

// DefaultDevicePort is the port the UIAutomator2 server listens on.
const DefaultDevicePort = 6790

// AndroidDevice manages an Android device connection via ADB.
type AndroidDevice struct {
	serial    string
	adbPath   string
	localPort int
}

// Info contains basic device information.
type Info struct {
	Serial     string
	Model      string
	SDK        string
	Brand      string
	IsEmulator bool
}

// New creates an AndroidDevice for the given serial.
// If serial is empty, it auto-detects the connected device.
func New(serial string) (*AndroidDevice, error) {
	adbPath, err := findADB()
	if err != nil {
		return nil, err
	}

	if serial == "" {
		serial, err = detectDeviceSerial(adbPath)
		if err != nil {
			return nil, fmt.Errorf("no device specified and auto-detect failed: %w", err)
		}
	}

	d := &AndroidDevice{
		serial:  serial,
		adbPath: adbPath,
	}

	if err := d.waitForDevice(5 * time.Second); err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}

	return d, nil
}

// detectDeviceSerial finds the first connected device serial.
func detectDeviceSerial(adbPath string) (string, error) {
	cmd := exec.Command(adbPath, "devices")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 && parts[1] == "device" {
			return parts[0], nil
		}
	}
	return "", fmt.Errorf("no connected devices found")
}

// Serial returns the device serial number.
func (d *AndroidDevice) Serial() string {
	return d.serial
}

// LocalPort returns the forwarded UIAutomator2 TCP port (0 if not started).
func (d *AndroidDevice) LocalPort() int {
	return d.localPort
}

// Shell executes a shell command on the device.
func (d *AndroidDevice) Shell(cmd string) (string, error) {
	return d.adb("shell", cmd)
}

// IsInstalled checks if a package is installed.
func (d *AndroidDevice) IsInstalled(pkg string) bool {
	out, err := d.Shell("pm list packages " + pkg)
	if err != nil {
		return false
	}
	return strings.Contains(out, "package:"+pkg)
}

// Forward creates a TCP port forward from local to device.
func (d *AndroidDevice) Forward(localPort, remotePort int) error {
	_, err := d.adb("forward", fmt.Sprintf("tcp:%d", localPort), fmt.Sprintf("tcp:%d", remotePort))
	return err
}

// RemoveForward removes a TCP port forward.
func (d *AndroidDevice) RemoveForward(localPort int) error {
	_, err := d.adb("forward", "--remove", fmt.Sprintf("tcp:%d", localPort))
	return err
}

// GetInfo returns device information.
func (d *AndroidDevice) GetInfo() (Info, error) {
	info := Info{Serial: d.serial}

	if model, err := d.Shell("getprop ro.product.model"); err == nil {
		info.Model = strings.TrimSpace(model)
	}
	if sdk, err := d.Shell("getprop ro.build.version.sdk"); err == nil {
		info.SDK = strings.TrimSpace(sdk)
	}
	if brand, err := d.Shell("getprop ro.product.brand"); err == nil {
		info.Brand = strings.TrimSpace(brand)
	}

	qemu, _ := d.Shell("getprop ro.kernel.qemu")
	info.IsEmulator = strings.TrimSpace(qemu) == "1"

	return info, nil
}

// StartUIAutomator2 forwards the server port and starts the instrumentation
// runner on the device, then waits for it to come up.
func (d *AndroidDevice) StartUIAutomator2(localPort int, timeout time.Duration) error {
	if !d.IsInstalled(UIAutomator2Server) {
		return fmt.Errorf("UIAutomator2 server not installed: %s", UIAutomator2Server)
	}
	if !d.IsInstalled(UIAutomator2Test) {
		return fmt.Errorf("UIAutomator2 test APK not installed: %s", UIAutomator2Test)
	}

	d.StopUIAutomator2()

	if err := d.Forward(localPort, DefaultDevicePort); err != nil {
		return fmt.Errorf("port forward failed: %w", err)
	}
	d.localPort = localPort

	// nohup with output redirected so the instrumentation survives the shell
	instrumentCmd := fmt.Sprintf(
		"nohup am instrument -w -e disableAnalytics true "+
			"%s/androidx.test.runner.AndroidJUnitRunner "+
			"> /dev/null 2>&1 &",
		UIAutomator2Test,
	)
	if _, err := d.Shell(instrumentCmd); err != nil {
		d.StopUIAutomator2()
		return fmt.Errorf("failed to start instrumentation: %w", err)
	}

	return nil
}

// StopUIAutomator2 stops the UIAutomator2 server and cleans up forwards.
func (d *AndroidDevice) StopUIAutomator2() error {
	d.Shell("am force-stop " + UIAutomator2Server)
	d.Shell("am force-stop " + UIAutomator2Test)

	time.Sleep(300 * time.Millisecond)

	if d.localPort != 0 {
		d.RemoveForward(d.localPort)
		d.localPort = 0
	}

	return nil
}

// adb executes an ADB command.
func (d *AndroidDevice) adb(args ...string) (string, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if d.serial != "" {
		cmdArgs = append(cmdArgs, "-s", d.serial)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(d.adbPath, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			errMsg = stdout.String()
		}
		return "", fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, errMsg)
	}

	return stdout.String(), nil
}

// waitForDevice waits for the device to be available.
func (d *AndroidDevice) waitForDevice(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.isConnected() {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for device %s", d.serial)
}

// isConnected checks if the device is connected.
func (d *AndroidDevice) isConnected() bool {
	out, err := d.adb("get-state")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "device"
}

// findADB locates the ADB binary.
func findADB() (string, error) {
	if path, err := exec.LookPath("adb"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("adb not found in PATH; ensure Android SDK is installed")
}
