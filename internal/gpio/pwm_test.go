package gpio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePWMRoot lays out a sysfs-like pwmchip0 with channel 0 already exported.
func fakePWMRoot(t *testing.T, exported bool) string {
	t.Helper()
	root := t.TempDir()
	chip := filepath.Join(root, "pwmchip0")
	require.NoError(t, os.MkdirAll(chip, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(chip, "export"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(chip, "unexport"), nil, 0o644))
	if exported {
		require.NoError(t, os.MkdirAll(filepath.Join(chip, "pwm0"), 0o755))
	}
	return root
}

func readAttr(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPWMToneStartStop(t *testing.T) {
	root := fakePWMRoot(t, true)
	tone, err := NewPWMTone(root, 0, 0, DefaultPinBuzzer)
	require.NoError(t, err)

	require.NoError(t, tone.StartTone(DefaultPinBuzzer, 10000))
	ch := filepath.Join(root, "pwmchip0", "pwm0")
	assert.Equal(t, "100000", readAttr(t, filepath.Join(ch, "period")))
	assert.Equal(t, "50000", readAttr(t, filepath.Join(ch, "duty_cycle")))
	assert.Equal(t, "1", readAttr(t, filepath.Join(ch, "enable")))

	require.NoError(t, tone.StopTone(DefaultPinBuzzer))
	assert.Equal(t, "0", readAttr(t, filepath.Join(ch, "duty_cycle")))
	assert.Equal(t, "0", readAttr(t, filepath.Join(ch, "enable")))
}

func TestPWMToneRepeatedStartKeepsChannel(t *testing.T) {
	root := fakePWMRoot(t, true)
	tone, err := NewPWMTone(root, 0, 0, DefaultPinBuzzer)
	require.NoError(t, err)
	ch := filepath.Join(root, "pwmchip0", "pwm0")

	require.NoError(t, tone.StartTone(DefaultPinBuzzer, 10000))
	// Mark the attributes; a rewrite would clobber them.
	for _, attr := range []string{"period", "duty_cycle", "enable"} {
		require.NoError(t, os.WriteFile(filepath.Join(ch, attr), []byte("untouched"), 0o644))
	}

	require.NoError(t, tone.StartTone(DefaultPinBuzzer, 10000))
	for _, attr := range []string{"period", "duty_cycle", "enable"} {
		assert.Equal(t, "untouched", readAttr(t, filepath.Join(ch, attr)), attr)
	}

	// A new frequency reprograms the channel.
	require.NoError(t, tone.StartTone(DefaultPinBuzzer, 2000))
	assert.Equal(t, "500000", readAttr(t, filepath.Join(ch, "period")))
	assert.Equal(t, "1", readAttr(t, filepath.Join(ch, "enable")))

	// After a stop the same frequency starts again.
	require.NoError(t, tone.StopTone(DefaultPinBuzzer))
	require.NoError(t, tone.StartTone(DefaultPinBuzzer, 2000))
	assert.Equal(t, "250000", readAttr(t, filepath.Join(ch, "duty_cycle")))
	assert.Equal(t, "1", readAttr(t, filepath.Join(ch, "enable")))
}

func TestPWMToneExportsChannel(t *testing.T) {
	root := fakePWMRoot(t, false)

	// The kernel creates pwm0 on export; the fake tree cannot, so only the
	// export write is observable here.
	_, err := NewPWMTone(root, 0, 0, DefaultPinBuzzer)
	require.NoError(t, err)
	assert.Equal(t, "0", readAttr(t, filepath.Join(root, "pwmchip0", "export")))
}

func TestPWMToneMissingChip(t *testing.T) {
	_, err := NewPWMTone(t.TempDir(), 3, 0, DefaultPinBuzzer)
	assert.Error(t, err)
}

func TestPWMToneWrongPin(t *testing.T) {
	tone, err := NewPWMTone(fakePWMRoot(t, true), 0, 0, DefaultPinBuzzer)
	require.NoError(t, err)

	assert.Error(t, tone.StartTone(DefaultPinLED, 10000))
	assert.Error(t, tone.StopTone(DefaultPinLED))
	assert.Error(t, tone.StartTone(DefaultPinBuzzer, 0))
}

func TestPWMToneClose(t *testing.T) {
	root := fakePWMRoot(t, true)
	tone, err := NewPWMTone(root, 0, 0, DefaultPinBuzzer)
	require.NoError(t, err)

	require.NoError(t, tone.Close())
	assert.Equal(t, "0", readAttr(t, filepath.Join(root, "pwmchip0", "pwm0", "enable")))
	assert.Equal(t, "0", readAttr(t, filepath.Join(root, "pwmchip0", "unexport")))
}
