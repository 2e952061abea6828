package testserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fkTag struct {
	Product  string `json:"product" binding:"required"`
	K        string `json:"k" binding:"required"`
	V        string `json:"v" binding:"required"`
	Owner    string `json:"owner"`
	Version  int    `json:"version"`
	Editor   string `json:"editor"`
	LastEdit string `json:"last_edit"`
	Comment  string `json:"comment" binding:"max=200"`
}

type fkLogin struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type fkFilter struct {
	K string `form:"k" json:"k"`
	V string `form:"v" json:"v"`
}

// Folksonomy is an in-memory Folksonomy Engine.
type Folksonomy struct {
	mu     sync.Mutex
	users  map[string]string
	tokens map[string]string
	// product -> key -> versions, oldest first
	tags map[string]map[string][]fkTag
}

// StartFolksonomy serves a Folksonomy fake that accepts the given
// username/password pairs.
func StartFolksonomy(tb testing.TB, users map[string]string) (*Server, *Folksonomy) {
	tb.Helper()
	f := &Folksonomy{
		users:  users,
		tokens: make(map[string]string),
		tags:   make(map[string]map[string][]fkTag),
	}
	return start(tb, "", f.register), f
}

func (f *Folksonomy) register(r gin.IRouter) {
	r.GET("/ping", f.ping)
	r.POST("/auth", f.login)
	r.GET("/keys", f.keys)
	r.GET("/values/:k", f.values)
	r.GET("/products", f.products)
	r.GET("/products/stats", f.stats)
	r.GET("/product/:product", f.product)
	r.GET("/product/:product/:k", f.productTag)
	r.GET("/product/:product/:k/versions", f.versions)
	r.POST("/product", f.authenticated(f.add))
	r.PUT("/product", f.authenticated(f.put))
	r.DELETE("/product/:product/:k", f.authenticated(f.remove))
}

func (f *Folksonomy) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ping": "pong @ " + time.Now().UTC().Format(time.RFC3339)})
}

func (f *Folksonomy) login(c *gin.Context) {
	var req fkLogin
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, "body", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if pass, ok := f.users[req.Username]; !ok || pass != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
		return
	}
	token := req.Username + "__U" + uuid.NewString()
	f.tokens[token] = req.Username
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// authenticated resolves the bearer token into the "user" context key.
func (f *Folksonomy) authenticated(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		f.mu.Lock()
		user, known := f.tokens[token]
		f.mu.Unlock()
		if !ok || !known {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		c.Set("user", user)
		next(c)
	}
}

func (f *Folksonomy) keys(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	type key struct {
		K      string `json:"k"`
		Count  int    `json:"count"`
		Values int    `json:"values"`
	}
	counts := make(map[string]int)
	values := make(map[string]map[string]bool)
	for _, byKey := range f.tags {
		for k, versions := range byKey {
			counts[k]++
			if values[k] == nil {
				values[k] = make(map[string]bool)
			}
			values[k][latest(versions).V] = true
		}
	}
	out := make([]key, 0, len(counts))
	for k, n := range counts {
		out = append(out, key{K: k, Count: n, Values: len(values[k])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].K < out[j].K })
	c.JSON(http.StatusOK, out)
}

func (f *Folksonomy) values(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	type value struct {
		V            string `json:"v"`
		ProductCount int    `json:"product_count"`
	}
	counts := make(map[string]int)
	for _, byKey := range f.tags {
		if versions, ok := byKey[c.Param("k")]; ok {
			counts[latest(versions).V]++
		}
	}
	out := make([]value, 0, len(counts))
	for v, n := range counts {
		out = append(out, value{V: v, ProductCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].V < out[j].V })
	c.JSON(http.StatusOK, out)
}

func (f *Folksonomy) products(c *gin.Context) {
	var q fkFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, "query", err)
		return
	}
	if q.K == "" {
		unprocessable(c, newDetail("missing", "Field required", nil, "query", "k"))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	type product struct {
		Product string `json:"product"`
		K       string `json:"k"`
		V       string `json:"v"`
	}
	out := []product{}
	for _, t := range f.current(q) {
		out = append(out, product{Product: t.Product, K: t.K, V: t.V})
	}
	c.JSON(http.StatusOK, out)
}

func (f *Folksonomy) stats(c *gin.Context) {
	var q fkFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, "query", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	type stat struct {
		Product  string `json:"product"`
		Keys     int    `json:"keys"`
		Editors  int    `json:"editors"`
		LastEdit string `json:"last_edit"`
	}
	matched := make(map[string]bool)
	for _, t := range f.current(q) {
		matched[t.Product] = true
	}
	out := []stat{}
	for product := range matched {
		s := stat{Product: product, Keys: len(f.tags[product])}
		editors := make(map[string]bool)
		for _, versions := range f.tags[product] {
			for _, t := range versions {
				editors[t.Editor] = true
				if t.LastEdit > s.LastEdit {
					s.LastEdit = t.LastEdit
				}
			}
		}
		s.Editors = len(editors)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	c.JSON(http.StatusOK, out)
}

func (f *Folksonomy) product(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byKey, ok := f.tags[c.Param("product")]
	if !ok {
		// The real service answers null for unknown products.
		c.JSON(http.StatusOK, nil)
		return
	}
	out := make([]fkTag, 0, len(byKey))
	for _, versions := range byKey {
		out = append(out, latest(versions))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].K < out[j].K })
	c.JSON(http.StatusOK, out)
}

func (f *Folksonomy) productTag(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	versions, ok := f.tags[c.Param("product")][c.Param("k")]
	if !ok {
		notFound(c, "Tag")
		return
	}
	c.JSON(http.StatusOK, latest(versions))
}

func (f *Folksonomy) versions(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	versions, ok := f.tags[c.Param("product")][c.Param("k")]
	if !ok {
		c.JSON(http.StatusOK, []fkTag{})
		return
	}
	out := make([]fkTag, len(versions))
	for i := range versions {
		out[i] = versions[len(versions)-1-i]
	}
	c.JSON(http.StatusOK, out)
}

func (f *Folksonomy) add(c *gin.Context) {
	var t fkTag
	if err := c.ShouldBindJSON(&t); err != nil {
		bindFailed(c, "body", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.tags[t.Product][t.K]; exists {
		unprocessable(c, newDetail("value_error",
			"Value error, key already exists for this product, use PUT to update it", t.K, "body", "k"))
		return
	}
	if t.Version != 0 && t.Version != 1 {
		unprocessable(c, newDetail("value_error",
			"Value error, version of a new tag must be 1", t.Version, "body", "version"))
		return
	}
	if f.tags[t.Product] == nil {
		f.tags[t.Product] = make(map[string][]fkTag)
	}
	f.tags[t.Product][t.K] = []fkTag{f.stamp(c, t, 1)}
	c.JSON(http.StatusOK, "ok")
}

func (f *Folksonomy) put(c *gin.Context) {
	var t fkTag
	if err := c.ShouldBindJSON(&t); err != nil {
		bindFailed(c, "body", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	versions, ok := f.tags[t.Product][t.K]
	if !ok {
		notFound(c, "Tag")
		return
	}
	next := latest(versions).Version + 1
	if t.Version != next {
		unprocessable(c, newDetail("value_error",
			"Value error, version must be "+strconv.Itoa(next), t.Version, "body", "version"))
		return
	}
	f.tags[t.Product][t.K] = append(versions, f.stamp(c, t, next))
	c.JSON(http.StatusOK, "ok")
}

func (f *Folksonomy) remove(c *gin.Context) {
	product, k := c.Param("product"), c.Param("k")
	version, err := strconv.Atoi(c.Query("version"))
	if err != nil {
		unprocessable(c, newDetail("int_parsing",
			"Input should be a valid integer, unable to parse string as an integer",
			c.Query("version"), "query", "version"))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	versions, ok := f.tags[product][k]
	if !ok {
		notFound(c, "Tag")
		return
	}
	if cur := latest(versions).Version; version != cur {
		unprocessable(c, newDetail("value_error",
			"Value error, version must be "+strconv.Itoa(cur), version, "query", "version"))
		return
	}
	delete(f.tags[product], k)
	if len(f.tags[product]) == 0 {
		delete(f.tags, product)
	}
	c.JSON(http.StatusOK, "ok")
}

// current returns the latest version of every tag matching q.
func (f *Folksonomy) current(q fkFilter) []fkTag {
	var out []fkTag
	for _, byKey := range f.tags {
		for k, versions := range byKey {
			t := latest(versions)
			if q.K != "" && k != q.K {
				continue
			}
			if q.V != "" && t.V != q.V {
				continue
			}
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].K < out[j].K
	})
	return out
}

func (f *Folksonomy) stamp(c *gin.Context, t fkTag, version int) fkTag {
	t.Version = version
	t.Editor = c.GetString("user")
	t.LastEdit = time.Now().UTC().Format("2006-01-02T15:04:05.000000")
	return t
}

func latest(versions []fkTag) fkTag {
	return versions[len(versions)-1]
}
