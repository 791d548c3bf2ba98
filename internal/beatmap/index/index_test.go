package index_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/okian/senstune/internal/beatmap"
	"github.com/okian/senstune/internal/beatmap/index"
	"github.com/okian/senstune/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const levelA = `osu file format v14

[HitObjects]
256,192,1000,1,0,0:0:0:0:
`

const levelB = `osu file format v14

[HitObjects]
100,100,500,1,0,0:0:0:0:
`

func init() {
	_ = logger.InitWithWriter(io.Discard)
}

func writeArchive(t *testing.T, path string, members map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
}

func TestIndexBuild(t *testing.T) {
	Convey("Given a directory of plain level files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		pathA := filepath.Join(dir, "a.osu")
		So(os.WriteFile(pathA, []byte(levelA), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0o644), ShouldBeNil)

		idx := index.New(index.WithCacheDir(t.TempDir()))

		Convey("When building the index", func() {
			So(idx.Build(ctx, dir), ShouldBeNil)

			Convey("Then only level files are indexed, keyed by fingerprint", func() {
				So(idx.Size(), ShouldEqual, 1)
				loc, ok := idx.Lookup(beatmap.Fingerprint([]byte(levelA)))
				So(ok, ShouldBeTrue)
				So(loc, ShouldEqual, pathA)
			})

			Convey("Then unknown fingerprints miss", func() {
				_, ok := idx.Lookup("deadbeef")
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given duplicate level content in two files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		first := filepath.Join(dir, "1-first.osu")
		So(os.WriteFile(first, []byte(levelA), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "2-dup.osu"), []byte(levelA), 0o644), ShouldBeNil)

		idx := index.New(index.WithCacheDir(t.TempDir()))
		So(idx.Build(ctx, dir), ShouldBeNil)

		Convey("Then the first occurrence wins", func() {
			So(idx.Size(), ShouldEqual, 1)
			loc, _ := idx.Lookup(beatmap.Fingerprint([]byte(levelA)))
			So(loc, ShouldEqual, first)
		})
	})

	Convey("Given an archive holding level members", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		cache := t.TempDir()
		writeArchive(t, filepath.Join(dir, "pack.osz"), map[string]string{
			"one.osu":   levelB,
			"skin.ini":  "not a level",
			"audio.mp3": "binary",
		})

		idx := index.New(index.WithCacheDir(cache))

		Convey("When building the index", func() {
			So(idx.Build(ctx, dir), ShouldBeNil)

			fp := beatmap.Fingerprint([]byte(levelB))

			Convey("Then the member is extracted to a fingerprint-named cache file", func() {
				loc, ok := idx.Lookup(fp)
				So(ok, ShouldBeTrue)
				So(loc, ShouldEqual, filepath.Join(cache, fp+".osu"))

				data, err := os.ReadFile(loc)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, levelB)
			})

			Convey("And rebuilding reuses the cache file", func() {
				loc, _ := idx.Lookup(fp)
				before, err := os.Stat(loc)
				So(err, ShouldBeNil)

				idx2 := index.New(index.WithCacheDir(cache))
				So(idx2.Build(ctx, dir), ShouldBeNil)

				after, err := os.Stat(loc)
				So(err, ShouldBeNil)
				So(after.ModTime().Equal(before.ModTime()), ShouldBeTrue)
			})
		})
	})

	Convey("Given a corrupt archive next to a good level", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "broken.osz"), []byte("not a zip"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "good.osu"), []byte(levelA), 0o644), ShouldBeNil)

		idx := index.New(index.WithCacheDir(t.TempDir()))

		Convey("Then indexing skips the archive and keeps going", func() {
			So(idx.Build(ctx, dir), ShouldBeNil)
			So(idx.Size(), ShouldEqual, 1)
		})
	})

	Convey("Given a missing directory", t, func() {
		idx := index.New(index.WithCacheDir(t.TempDir()))

		Convey("Then building aborts with the sentinel error", func() {
			err := idx.Build(context.Background(), filepath.Join(t.TempDir(), "nope"))
			So(err, ShouldWrap, index.ErrMissingDir)
		})
	})
}
