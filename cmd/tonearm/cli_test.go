package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tonearm/internal/metadata"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`[paths]
staging_dir = %q
package_dir = %q
batch_dir = %q
log_dir = %q

[sender]
party_id = "PADPIDA2024TONEARM"
party_name = "Tonearm Test"

[logging]
level = "error"
`,
		filepath.Join(dir, "staging"),
		filepath.Join(dir, "packages"),
		filepath.Join(dir, "batches"),
		filepath.Join(dir, "logs"))

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeSubmissionFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	audio := filepath.Join(dir, "master.wav")
	cover := filepath.Join(dir, "cover.jpg")
	for _, path := range []string{audio, cover} {
		if err := os.WriteFile(path, []byte("bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	sub := submission{
		Release: &metadata.Release{
			Title:       "Midnight Drive",
			TrackTitle:  "Midnight Drive",
			Artist:      "The Wanderers",
			ISRC:        "USRC17607839",
			ISWC:        "T-034524680-1",
			UPC:         "190295851927",
			Genre:       "Electronic",
			Language:    "en",
			Label:       "Night Shift Records",
			ReleaseDate: "2099-01-01",
		},
		Assets: &metadata.Assets{
			AudioFiles: []metadata.AudioFile{
				{URL: audio, Format: "wav", SampleRate: 44100, BitDepth: 16, TrackIndex: 0},
			},
			CoverArt: &metadata.CoverArt{
				URL: cover, MIMEType: "image/jpeg",
				Width: 3000, Height: 3000, SizeBytes: 1 << 20,
			},
		},
	}
	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "submission.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateCommand(t *testing.T) {
	cfg := writeTestConfig(t)
	sub := writeSubmissionFile(t)

	output, err := runCommand(t, "--config", cfg, "validate", sub, "--partner", "distrokid")
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "ready for delivery") {
		t.Errorf("output = %s", output)
	}
}

func TestValidateCommandReportsProblems(t *testing.T) {
	cfg := writeTestConfig(t)
	sub := writeSubmissionFile(t)

	// Strip the UPC to break the identifier chain.
	data, err := os.ReadFile(sub)
	if err != nil {
		t.Fatal(err)
	}
	broken := strings.Replace(string(data), `"upc":"190295851927",`, "", 1)
	if broken == string(data) {
		t.Fatal("fixture UPC not found")
	}
	if err := os.WriteFile(sub, []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := runCommand(t, "--config", cfg, "validate", sub, "--partner", "distrokid")
	if err == nil {
		t.Fatalf("expected validation failure, got:\n%s", output)
	}
	if !strings.Contains(output, "Missing UPC") {
		t.Errorf("output = %s", output)
	}
}

func TestDeliverCommand(t *testing.T) {
	cfg := writeTestConfig(t)
	sub := writeSubmissionFile(t)
	dropDir := t.TempDir()

	output, err := runCommand(t, "--config", cfg, "deliver", sub,
		"--partner", "distrokid", "--api-key", "dk-key", "--drop-dir", dropDir)
	if err != nil {
		t.Fatalf("deliver failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "DK-") {
		t.Errorf("output = %s", output)
	}
	if _, err := os.Stat(filepath.Join(dropDir, "190295851927", "ern.xml")); err != nil {
		t.Errorf("document package not in drop dir: %v", err)
	}
}

func TestDeliverCommandWithoutCredentials(t *testing.T) {
	cfg := writeTestConfig(t)
	sub := writeSubmissionFile(t)

	output, err := runCommand(t, "--config", cfg, "deliver", sub, "--partner", "distrokid")
	if err == nil || !strings.Contains(err.Error(), "no credentials") {
		t.Fatalf("err = %v\n%s", err, output)
	}
}

func TestCredentialsRoundTripThroughDeliver(t *testing.T) {
	cfg := writeTestConfig(t)
	sub := writeSubmissionFile(t)

	if _, err := runCommand(t, "--config", cfg, "credentials", "set", "distrokid", "--api-key", "dk-key"); err != nil {
		t.Fatalf("credentials set failed: %v", err)
	}
	output, err := runCommand(t, "--config", cfg, "deliver", sub, "--partner", "distrokid")
	if err != nil {
		t.Fatalf("deliver with saved credentials failed: %v\n%s", err, output)
	}

	if _, err := runCommand(t, "--config", cfg, "credentials", "clear", "distrokid"); err != nil {
		t.Fatalf("credentials clear failed: %v", err)
	}
	if _, err := runCommand(t, "--config", cfg, "deliver", sub, "--partner", "distrokid"); err == nil {
		t.Error("deliver succeeded after credentials were cleared")
	}
}

func TestDeploymentsCommandsAfterDelivery(t *testing.T) {
	cfg := writeTestConfig(t)
	sub := writeSubmissionFile(t)

	if _, err := runCommand(t, "--config", cfg, "deliver", sub,
		"--partner", "distrokid", "--api-key", "dk-key"); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	output, err := runCommand(t, "--config", cfg, "deployments", "list")
	if err != nil {
		t.Fatalf("deployments list failed: %v", err)
	}
	if !strings.Contains(output, "190295851927") || !strings.Contains(output, "delivered") {
		t.Errorf("output = %s", output)
	}

	output, err = runCommand(t, "--config", cfg, "deployments", "show", "190295851927", "distrokid")
	if err != nil {
		t.Fatalf("deployments show failed: %v", err)
	}
	if !strings.Contains(output, "DK-") {
		t.Errorf("output = %s", output)
	}

	output, err = runCommand(t, "--config", cfg, "deployments", "status")
	if err != nil {
		t.Fatalf("deployments status failed: %v", err)
	}
	if !strings.Contains(output, "Delivered") {
		t.Errorf("output = %s", output)
	}
}

func TestPartnersCommand(t *testing.T) {
	output, err := runCommand(t, "partners")
	if err != nil {
		t.Fatalf("partners failed: %v", err)
	}
	for _, want := range []string{"distrokid", "tunecore", "cdbaby", "symphonic", "PADPIDA2013021901W"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Error("re-init without --overwrite succeeded")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Errorf("re-init with --overwrite failed: %v", err)
	}
}

func TestLoadSubmissionBareRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.json")
	content := `{"releaseTitle":"Solo","artistName":"A","releaseDate":"2099-01-01"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	release, assets, err := loadSubmission(path)
	if err != nil {
		t.Fatalf("loadSubmission failed: %v", err)
	}
	if release.Title != "Solo" || assets == nil {
		t.Errorf("release = %+v assets = %+v", release, assets)
	}

	if _, _, err := loadSubmission(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing file accepted")
	}
}
