package rcfile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zoro11031/shell-setup/internal/system"
	"github.com/zoro11031/shell-setup/internal/ui"
)

const (
	rcPath    = "/test/home/.bashrc"
	backupDir = "/test/backups"
)

// faultFs fails opens of one path with the configured errors.
type faultFs struct {
	afero.Fs
	path     string
	readErr  error
	writeErr error
}

func (f *faultFs) Open(name string) (afero.File, error) {
	if name == f.path && f.readErr != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: f.readErr}
	}
	return f.Fs.Open(name)
}

func (f *faultFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == f.path && f.writeErr != nil && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: f.writeErr}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// countingStorage fails every call and counts them.
type countingStorage struct {
	calls int
}

func (c *countingStorage) ReadText(string) (string, error) {
	c.calls++
	return "", errors.New("unexpected read")
}

func (c *countingStorage) WriteText(string, string) error {
	c.calls++
	return errors.New("unexpected write")
}

func (c *countingStorage) EnsureDirectory(string) error {
	c.calls++
	return errors.New("unexpected mkdir")
}

func newTestSetup(t *testing.T) (*system.FileSystem, *Patcher, *Backups, *bytes.Buffer) {
	t.Helper()
	fsys := system.NewMemFileSystem()
	var out bytes.Buffer
	backups := NewBackups(backupDir, fsys, ui.NewWithWriter(&out))
	return fsys, NewPatcher(fsys, zerolog.Nop()), backups, &out
}

func mustRead(t *testing.T, fsys *system.FileSystem, path string) string {
	t.Helper()
	got, err := fsys.ReadText(path)
	if err != nil {
		t.Fatalf("ReadText(%s) failed: %v", path, err)
	}
	return got
}

func TestApplyIncludesTrailingNewline(t *testing.T) {
	for _, existing := range []string{
		"echo 'existing content'",
		"echo 'existing content'\n",
	} {
		t.Run(existing, func(t *testing.T) {
			fsys, patcher, backups, _ := newTestSetup(t)
			if err := fsys.WriteText(rcPath, existing); err != nil {
				t.Fatalf("WriteText() failed: %v", err)
			}

			changed, err := patcher.Apply(rcPath, AppendOnly("install deno"), backups)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if !changed {
				t.Error("Apply() = false, want true")
			}

			want := "echo 'existing content'\ninstall deno\n"
			if got := mustRead(t, fsys, rcPath); got != want {
				t.Errorf("contents = %q, want %q", got, want)
			}
			if got := mustRead(t, fsys, backupDir+"/.bashrc.bak"); got != existing {
				t.Errorf("backup contents = %q, want %q", got, existing)
			}
		})
	}
}

func TestApplyNewlineNormalization(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		patch    Patch
		want     string
	}{
		{
			name:     "prepend gets trailing newline",
			existing: "echo 'x'\n",
			patch:    Patch{Prepend: "export PATH=/opt/bin:$PATH"},
			want:     "export PATH=/opt/bin:$PATH\necho 'x'\n",
		},
		{
			name:     "prepend newline is not doubled",
			existing: "echo 'x'\n",
			patch:    Patch{Prepend: "export A=1\n"},
			want:     "export A=1\necho 'x'\n",
		},
		{
			name:     "append newline is not doubled",
			existing: "echo 'x'\n",
			patch:    Patch{Append: "source ~/.tool/env\n"},
			want:     "echo 'x'\nsource ~/.tool/env\n",
		},
		{
			name:     "append with leading newline on unterminated file",
			existing: "echo 'x'",
			patch:    Patch{Append: "\nsource ~/.tool/env"},
			want:     "echo 'x'\nsource ~/.tool/env\n",
		},
		{
			name:     "prepend and append together",
			existing: "echo 'x'",
			patch:    Patch{Prepend: "# top", Append: "# bottom"},
			want:     "# top\necho 'x'\n# bottom\n",
		},
		{
			name:     "empty existing file",
			existing: "",
			patch:    AppendOnly("X"),
			want:     "\nX\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys, patcher, backups, _ := newTestSetup(t)
			if err := fsys.WriteText(rcPath, tt.existing); err != nil {
				t.Fatalf("WriteText() failed: %v", err)
			}

			changed, err := patcher.Apply(rcPath, tt.patch, backups)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if !changed {
				t.Error("Apply() = false, want true")
			}
			if got := mustRead(t, fsys, rcPath); got != tt.want {
				t.Errorf("contents = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	fsys, patcher, backups, _ := newTestSetup(t)
	_ = fsys.WriteText(rcPath, "echo 'x'")
	patch := Patch{Prepend: "# managed", Append: "install tool"}

	changed, err := patcher.Apply(rcPath, patch, backups)
	if err != nil || !changed {
		t.Fatalf("first Apply() = %v, %v, want true, nil", changed, err)
	}
	first := mustRead(t, fsys, rcPath)

	changed, err = patcher.Apply(rcPath, patch, backups)
	if err != nil {
		t.Fatalf("second Apply() error: %v", err)
	}
	if changed {
		t.Error("second Apply() = true, want false")
	}
	if got := mustRead(t, fsys, rcPath); got != first {
		t.Errorf("contents after second Apply() = %q, want %q", got, first)
	}

	// a fresh session must not duplicate either
	changed, err = patcher.Apply(rcPath, patch, NewBackups(backupDir, fsys, nil))
	if err != nil || changed {
		t.Errorf("Apply() in new session = %v, %v, want false, nil", changed, err)
	}
}

func TestApplyEmptyPatchDoesNoIO(t *testing.T) {
	storage := &countingStorage{}
	patcher := NewPatcher(storage, zerolog.Nop())
	backups := NewBackups(backupDir, storage, nil)

	for _, patch := range []Patch{{}, {Prepend: "", Append: ""}, AppendOnly("")} {
		changed, err := patcher.Apply(rcPath, patch, backups)
		if err != nil || changed {
			t.Errorf("Apply(%+v) = %v, %v, want false, nil", patch, changed, err)
		}
	}
	if storage.calls != 0 {
		t.Errorf("storage calls = %d, want 0", storage.calls)
	}
}

func TestApplySubstringDedup(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		patch    Patch
	}{
		{
			name:     "append already at end",
			existing: "echo 'x'\ninstall tool\n",
			patch:    AppendOnly("install tool"),
		},
		{
			name:     "append text inside a comment",
			existing: "# remember to install tool later\necho 'x'\n",
			patch:    AppendOnly("install tool"),
		},
		{
			name:     "prepend present in the middle",
			existing: "echo 'x'\nexport A=1\necho 'y'\n",
			patch:    Patch{Prepend: "export A=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys, patcher, backups, _ := newTestSetup(t)
			_ = fsys.WriteText(rcPath, tt.existing)

			changed, err := patcher.Apply(rcPath, tt.patch, backups)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if changed {
				t.Error("Apply() = true, want false")
			}
			if got := mustRead(t, fsys, rcPath); got != tt.existing {
				t.Errorf("contents = %q, want unchanged %q", got, tt.existing)
			}
			if exists, _ := fsys.FileExists(backupDir + "/.bashrc.bak"); exists {
				t.Error("backup written for an unchanged file")
			}
		})
	}
}

func TestApplyPartialDedup(t *testing.T) {
	fsys, patcher, backups, _ := newTestSetup(t)
	_ = fsys.WriteText(rcPath, "# managed\necho 'x'\n")

	changed, err := patcher.Apply(rcPath, Patch{Prepend: "# managed", Append: "install tool"}, backups)
	if err != nil || !changed {
		t.Fatalf("Apply() = %v, %v, want true, nil", changed, err)
	}
	want := "# managed\necho 'x'\ninstall tool\n"
	if got := mustRead(t, fsys, rcPath); got != want {
		t.Errorf("contents = %q, want %q", got, want)
	}
}

func TestApplyAbsentFile(t *testing.T) {
	fsys, patcher, backups, out := newTestSetup(t)
	path := "/test/home/.config/fish/config.fish"

	changed, err := patcher.Apply(path, AppendOnly("X"), backups)
	if err != nil || !changed {
		t.Fatalf("Apply() = %v, %v, want true, nil", changed, err)
	}
	if got := mustRead(t, fsys, path); got != "X\n" {
		t.Errorf("contents = %q, want %q", got, "X\n")
	}
	if len(backups.BackedUp()) != 0 {
		t.Errorf("BackedUp() = %v, want empty", backups.BackedUp())
	}
	if exists, _ := fsys.DirectoryExists(backupDir); exists {
		t.Error("backup directory created for a new file")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected notice: %q", out.String())
	}
}

func TestApplyAbsentFilePrependAndAppend(t *testing.T) {
	fsys, patcher, backups, _ := newTestSetup(t)

	changed, err := patcher.Apply(rcPath, Patch{Prepend: "top", Append: "bottom\n"}, backups)
	if err != nil || !changed {
		t.Fatalf("Apply() = %v, %v, want true, nil", changed, err)
	}
	if got := mustRead(t, fsys, rcPath); got != "top\nbottom\n" {
		t.Errorf("contents = %q, want %q", got, "top\nbottom\n")
	}
}

func TestApplyCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	fsys := system.NewFileSystem()
	path := dir + "/missing/nested/.profile"

	changed, err := NewPatcher(fsys, zerolog.Nop()).Apply(path, AppendOnly("X"), NewBackups(dir+"/backups", fsys, nil))
	if err != nil || !changed {
		t.Fatalf("Apply() = %v, %v, want true, nil", changed, err)
	}
	if got := mustRead(t, fsys, path); got != "X\n" {
		t.Errorf("contents = %q, want %q", got, "X\n")
	}
}

func TestApplyBackupOnce(t *testing.T) {
	fsys, patcher, backups, out := newTestSetup(t)
	_ = fsys.WriteText(rcPath, "original")

	if _, err := patcher.Apply(rcPath, AppendOnly("first"), backups); err != nil {
		t.Fatalf("first Apply() error: %v", err)
	}
	if _, err := patcher.Apply(rcPath, Patch{Prepend: "second"}, backups); err != nil {
		t.Fatalf("second Apply() error: %v", err)
	}

	if got := mustRead(t, fsys, rcPath); got != "second\noriginal\nfirst\n" {
		t.Errorf("contents = %q", got)
	}

	names, err := fsys.ListDirectory(backupDir)
	if err != nil {
		t.Fatalf("ListDirectory() error: %v", err)
	}
	if len(names) != 1 || names[0] != ".bashrc.bak" {
		t.Errorf("backup dir = %v, want [.bashrc.bak]", names)
	}
	if got := mustRead(t, fsys, backupDir+"/.bashrc.bak"); got != "original" {
		t.Errorf("backup contents = %q, want %q", got, "original")
	}
	if n := strings.Count(out.String(), "backing '"); n != 1 {
		t.Errorf("backup notices = %d, want 1: %q", n, out.String())
	}
}

func TestApplyPermissionDeniedIsSoft(t *testing.T) {
	tests := []struct {
		name     string
		writeErr error
	}{
		{"permission denied", fs.ErrPermission},
		{"EACCES", syscall.EACCES},
		{"not capable", errors.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := afero.NewMemMapFs()
			_ = afero.WriteFile(base, rcPath, []byte("echo 'x'\n"), 0644)
			fsys := system.NewFileSystemWithFs(&faultFs{Fs: base, path: rcPath, writeErr: tt.writeErr})

			changed, err := NewPatcher(fsys, zerolog.Nop()).Apply(rcPath, AppendOnly("X"), NewBackups(backupDir, fsys, nil))
			if err != nil {
				t.Fatalf("Apply() error = %v, want nil", err)
			}
			if changed {
				t.Error("Apply() = true, want false")
			}
			if got := mustRead(t, fsys, rcPath); got != "echo 'x'\n" {
				t.Errorf("contents = %q, want unchanged", got)
			}
			// the backup was still taken before the failed write
			if got := mustRead(t, fsys, backupDir+"/.bashrc.bak"); got != "echo 'x'\n" {
				t.Errorf("backup contents = %q", got)
			}
		})
	}
}

func TestApplyReadOnlyHome(t *testing.T) {
	base := afero.NewMemMapFs()
	_ = base.MkdirAll("/test/home", 0755)
	fsys := system.NewReadOnlyFileSystem(base)

	changed, err := NewPatcher(fsys, zerolog.Nop()).Apply(rcPath, AppendOnly("X"), NewBackups(backupDir, fsys, nil))
	if err != nil || changed {
		t.Errorf("Apply() = %v, %v, want false, nil", changed, err)
	}
}

func TestApplyOtherWriteErrorIsFatal(t *testing.T) {
	base := afero.NewMemMapFs()
	fsys := system.NewFileSystemWithFs(&faultFs{Fs: base, path: rcPath, writeErr: syscall.EIO})

	changed, err := NewPatcher(fsys, zerolog.Nop()).Apply(rcPath, AppendOnly("X"), NewBackups(backupDir, fsys, nil))
	if err == nil {
		t.Fatal("Apply() error = nil, want error")
	}
	if changed {
		t.Error("Apply() = true, want false")
	}
	if !strings.Contains(err.Error(), rcPath) {
		t.Errorf("error %q does not name %s", err, rcPath)
	}
	if !errors.Is(err, syscall.EIO) {
		t.Errorf("error %v does not wrap EIO", err)
	}
}

func TestApplyReadErrorIsFatal(t *testing.T) {
	base := afero.NewMemMapFs()
	_ = afero.WriteFile(base, rcPath, []byte("secret"), 0644)
	fsys := system.NewFileSystemWithFs(&faultFs{Fs: base, path: rcPath, readErr: fs.ErrPermission})

	changed, err := NewPatcher(fsys, zerolog.Nop()).Apply(rcPath, AppendOnly("X"), NewBackups(backupDir, fsys, nil))
	if err == nil {
		t.Fatal("Apply() error = nil, want error")
	}
	if changed {
		t.Error("Apply() = true, want false")
	}
	if !strings.Contains(err.Error(), "failed to read rc file") {
		t.Errorf("error = %q, want read context", err)
	}
	if got, _ := afero.ReadFile(base, rcPath); string(got) != "secret" {
		t.Errorf("contents = %q, want unchanged", got)
	}
}

func TestApplyBackupFailureIsFatal(t *testing.T) {
	base := afero.NewMemMapFs()
	_ = afero.WriteFile(base, rcPath, []byte("original"), 0644)
	backupPath := BackupPath(backupDir, rcPath)
	fsys := system.NewFileSystemWithFs(&faultFs{Fs: base, path: backupPath, writeErr: fs.ErrPermission})

	changed, err := NewPatcher(fsys, zerolog.Nop()).Apply(rcPath, AppendOnly("X"), NewBackups(backupDir, fsys, nil))
	if err == nil {
		t.Fatal("Apply() error = nil, want backup error")
	}
	if changed {
		t.Error("Apply() = true, want false")
	}
	if !strings.Contains(err.Error(), "failed to back up "+rcPath) {
		t.Errorf("error = %q, want backup context", err)
	}
	if got, _ := afero.ReadFile(base, rcPath); string(got) != "original" {
		t.Errorf("rc file modified after failed backup: %q", got)
	}
}

func TestApplyWithoutBackupsFails(t *testing.T) {
	fsys, patcher, _, _ := newTestSetup(t)
	if err := fsys.WriteText(rcPath, "echo 'x'\n"); err != nil {
		t.Fatalf("WriteText() failed: %v", err)
	}

	changed, err := patcher.Apply(rcPath, AppendOnly("install tool"), nil)
	if err == nil || changed {
		t.Fatalf("Apply() with nil backups = %v, %v, want false and an error", changed, err)
	}
	if got := mustRead(t, fsys, rcPath); got != "echo 'x'\n" {
		t.Errorf("file modified without a backup: %q", got)
	}

	// nothing to preserve for a missing file
	changed, err = patcher.Apply("/test/home/.zshrc", AppendOnly("install tool"), nil)
	if err != nil || !changed {
		t.Errorf("Apply() on missing file with nil backups = %v, %v, want true, nil", changed, err)
	}
}

func TestApplyLogsToInjectedLogger(t *testing.T) {
	fsys := system.NewMemFileSystem()
	var logs bytes.Buffer
	patcher := NewPatcher(fsys, zerolog.New(&logs).Level(zerolog.DebugLevel))

	if _, err := patcher.Apply(rcPath, AppendOnly("install tool"), NewBackups(backupDir, fsys, nil)); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if !strings.Contains(logs.String(), `"message":"rc file updated"`) {
		t.Errorf("logs = %q, want update entry", logs.String())
	}

	logs.Reset()
	if _, err := NewPatcher(fsys, zerolog.Nop()).Apply(rcPath, AppendOnly("install tool"), NewBackups(backupDir, fsys, nil)); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("logs = %q, want nothing from a patcher with its own logger", logs.String())
	}
}
