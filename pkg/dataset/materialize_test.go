package dataset

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

func TestMaterialize(t *testing.T) {
	f := newFixture(t)
	p := NewPreparer(logs.NewTestingLog(t), f.config())
	report, err := p.Materialize(Split{
		Train: []string{"MVI_20011", "MVI_20012"},
		Val:   []string{"seq1"},
	})
	require.NoError(t, err)

	require.Equal(t, map[string]string{
		// MVI_20012 is copied after MVI_20011, so its img00001 wins
		"images/train/img00001.jpg": "20012-1",
		"images/train/img00002.jpg": "20011-2",
		"labels/train/img00001.txt": "0 0.3 0.3 0.1 0.1\n",
		"labels/train/img00002.txt": "2 0.5 0.5 0.2 0.2\n3 0.1 0.1 0.1 0.1\n",
		"images/val/frame7.jpg":     "seq1-7",
		"labels/val/00007.txt":      "",
	}, snapshot(t, f.outDir))

	require.Equal(t, SplitReport{Sequences: []string{"MVI_20011", "MVI_20012"}, Images: 3, Labels: 3}, report.Train)
	require.Equal(t, SplitReport{Sequences: []string{"seq1"}, Images: 1, Labels: 1}, report.Val)
	require.Equal(t, 1, report.SkippedLabels)
	require.Equal(t, 1, report.ImageCollisions)
	require.Equal(t, 1, report.LabelCollisions)
	require.EqualValues(t, 7+7+7+18+36+18+6, report.BytesCopied)
}

func TestMaterializeCreatesEmptyTree(t *testing.T) {
	f := newFixture(t)
	p := NewPreparer(logs.NewTestingLog(t), f.config())
	report, err := p.Materialize(Split{})
	require.NoError(t, err)
	require.Empty(t, snapshot(t, f.outDir))
	for _, dir := range []string{"images/train", "images/val", "labels/train", "labels/val"} {
		require.DirExists(t, filepath.Join(f.outDir, dir))
	}
	require.Zero(t, report.BytesCopied)
}

func TestMaterializeStrict(t *testing.T) {
	f := newFixture(t)
	cfg := f.config()
	cfg.Strict = true
	p := NewPreparer(logs.NewTestingLog(t), cfg)

	_, err := p.Materialize(Split{Train: []string{"MVI_20011", "MVI_20012"}})
	require.ErrorIs(t, err, ErrImageCollision)

	_, err = p.Materialize(Split{Val: []string{"seq1"}})
	require.ErrorIs(t, err, ErrMalformedLabelName)

	// No collision when the sequences land in different splits
	_, err = p.Materialize(Split{Train: []string{"MVI_20011"}, Val: []string{"MVI_20012"}})
	require.NoError(t, err)
}

func TestMaterializeMissingSequence(t *testing.T) {
	f := newFixture(t)
	p := NewPreparer(logs.NewTestingLog(t), f.config())
	_, err := p.Materialize(Split{Train: []string{"MVI_99999"}})
	require.Error(t, err)
}

type countingProgress struct {
	added    int
	finished int
	err      error // Returned from every call, when set
}

func (c *countingProgress) Add(num int) error {
	c.added += num
	return c.err
}

func (c *countingProgress) Finish() error {
	c.finished++
	return c.err
}

func TestMaterializeProgress(t *testing.T) {
	f := newFixture(t)
	p := NewPreparer(logs.NewTestingLog(t), f.config())
	progress := map[string]*countingProgress{}
	p.NewProgress = func(description string, total int) Progress {
		c := &countingProgress{}
		progress[description] = c
		return c
	}
	_, err := p.Materialize(Split{Train: []string{"MVI_20011"}, Val: []string{"seq1"}})
	require.NoError(t, err)
	require.Equal(t, &countingProgress{added: 4, finished: 1}, progress["Copying train"])
	require.Equal(t, &countingProgress{added: 2, finished: 1}, progress["Copying val"])
}

func TestMaterializeProgressFailure(t *testing.T) {
	f := newFixture(t)
	p := NewPreparer(logs.NewTestingLog(t), f.config())
	broken := errors.New("terminal closed")
	progress := []*countingProgress{}
	p.NewProgress = func(description string, total int) Progress {
		c := &countingProgress{err: broken}
		progress = append(progress, c)
		return c
	}
	report, err := p.Materialize(Split{Train: []string{"MVI_20011"}, Val: []string{"seq1"}})
	require.NoError(t, err)
	require.Equal(t, 2, report.Train.Images)
	require.Equal(t, 1, report.Val.Images)
	require.FileExists(t, filepath.Join(f.outDir, "labels", "val", "00007.txt"))

	// Each bar is dropped after its first failure
	require.Len(t, progress, 2)
	for _, c := range progress {
		require.Equal(t, &countingProgress{added: 1, finished: 0, err: broken}, c)
	}
}
