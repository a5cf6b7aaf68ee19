package content

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/staticd/internal/testutil"
)

func TestResolve(t *testing.T) {
	c := qt.New(t)

	root := testutil.WebRoot(t, map[string][]byte{
		"a.png":          {0x89, 'P', 'N', 'G'},
		"a.unknownext":   []byte("???"),
		"css/site.CSS":   []byte("body{}"),
		"my%20file.txt":  []byte("encoded name"),
		"docs/readme.md": []byte("# readme"),
	})

	c.Run("root maps to index", func(c *qt.C) {
		res, err := Resolve(root, "/")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, http.StatusOK)
		c.Assert(res.Type, qt.Equals, "text/html")
		c.Assert(string(res.Body), qt.Equals, testutil.IndexPage)
		c.Assert(res.File, qt.Equals, IndexFile)
		c.Assert(res.Encoding, qt.Equals, Plain)

		index, err := Resolve(root, "/index.html")
		c.Assert(err, qt.IsNil)
		c.Assert(index.Type, qt.Equals, res.Type)
		c.Assert(index.Body, qt.DeepEquals, res.Body)
	})

	c.Run("content types", func(c *qt.C) {
		res, err := Resolve(root, "/a.png")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Type, qt.Equals, "image/png")

		res, err = Resolve(root, "/a.unknownext")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Type, qt.Equals, DefaultType)

		res, err = Resolve(root, "/css/site.CSS")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Type, qt.Equals, "text/css")

		res, err = Resolve(root, "/docs/readme.md")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Type, qt.Equals, DefaultType)
		c.Assert(res.File, qt.Equals, "docs/readme.md")
	})

	c.Run("path is not decoded", func(c *qt.C) {
		res, err := Resolve(root, "/my%20file.txt")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, http.StatusOK)
		c.Assert(string(res.Body), qt.Equals, "encoded name")
	})

	c.Run("missing file", func(c *qt.C) {
		res, err := Resolve(root, "/missing.html")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, http.StatusNotFound)
		c.Assert(res.Type, qt.Equals, "text/html")
		c.Assert(string(res.Body), qt.Equals, testutil.NotFoundPage)
		c.Assert(res.File, qt.Equals, "missing.html")
	})

	c.Run("directory is not served", func(c *qt.C) {
		res, err := Resolve(root, "/docs")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, http.StatusNotFound)

		res, err = Resolve(root, "/docs/")
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, http.StatusNotFound)
	})

	c.Run("not found page follows current contents", func(c *qt.C) {
		testutil.WriteFile(t, root, NotFoundFile, []byte("updated"))
		defer testutil.WriteFile(t, root, NotFoundFile, []byte(testutil.NotFoundPage))

		res, err := Resolve(root, "/nope.txt")
		c.Assert(err, qt.IsNil)
		c.Assert(string(res.Body), qt.Equals, "updated")
	})
}

func TestResolveTraversal(t *testing.T) {
	c := qt.New(t)

	parent := c.TempDir()
	root := filepath.Join(parent, "www")
	testutil.WriteFile(t, root, IndexFile, []byte(testutil.IndexPage))
	testutil.WriteFile(t, root, NotFoundFile, []byte(testutil.NotFoundPage))
	testutil.WriteFile(t, parent, "secret.txt", []byte("secret"))

	for _, path := range []string{"/../secret.txt", "/docs/../../secret.txt", "/.."} {
		res, err := Resolve(root, path)
		c.Assert(err, qt.IsNil)
		c.Assert(res.Status, qt.Equals, http.StatusNotFound, qt.Commentf("path %s", path))
		c.Assert(string(res.Body), qt.Equals, testutil.NotFoundPage)
	}

	// dot segments that stay inside the root are still served
	res, err := Resolve(root, "/sub/../index.html")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Status, qt.Equals, http.StatusOK)
}

func TestResolveMissingNotFoundPage(t *testing.T) {
	c := qt.New(t)

	root := c.TempDir()
	testutil.WriteFile(t, root, IndexFile, []byte(testutil.IndexPage))

	res, err := Resolve(root, "/")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Status, qt.Equals, http.StatusOK)

	_, err = Resolve(root, "/missing.html")
	c.Assert(errors.Is(err, ErrNotFoundPageMissing), qt.IsTrue)
}

func TestProvision(t *testing.T) {
	c := qt.New(t)

	root := filepath.Join(c.TempDir(), "site", "www")
	c.Assert(Provision(root), qt.IsNil)

	index, err := os.ReadFile(filepath.Join(root, IndexFile))
	c.Assert(err, qt.IsNil)
	c.Assert(string(index), qt.Contains, "<html>")
	notFound, err := os.ReadFile(filepath.Join(root, NotFoundFile))
	c.Assert(err, qt.IsNil)
	c.Assert(string(notFound), qt.Contains, "404")

	// existing pages are kept
	testutil.WriteFile(t, root, IndexFile, []byte("custom"))
	c.Assert(Provision(root), qt.IsNil)
	index, err = os.ReadFile(filepath.Join(root, IndexFile))
	c.Assert(err, qt.IsNil)
	c.Assert(string(index), qt.Equals, "custom")

	res, err := Resolve(root, "/missing")
	c.Assert(err, qt.IsNil)
	c.Assert(res.Status, qt.Equals, http.StatusNotFound)
}
