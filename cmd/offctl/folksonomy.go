package main

import (
	"context"

	"github.com/kbukum/offclient/folksonomy"
	"github.com/kbukum/offclient/httpclient/rest"
)

// mutation is the output of a successful add, put or remove.
type mutation struct {
	Result string `json:"result"`
}

func mutated(r rest.Result[string]) (any, error) {
	v, err := r.Unwrap()
	if err != nil {
		return nil, err
	}
	return mutation{Result: v}, nil
}

func unwrap[T any](r rest.Result[T]) (any, error) {
	v, err := r.Unwrap()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// tagArgs parses <barcode> <key> followed by the extra names.
func tagArgs(name string, raw []string, extra ...string) (*args, *string, error) {
	a := newArgs(name, 2+len(extra), append([]string{"barcode", "key"}, extra...)...)
	comment := a.fs.String("comment", "", "free text stored with the tag")
	if err := a.parse(raw); err != nil {
		return nil, nil, err
	}
	return a, comment, nil
}

var folksonomyCommands = map[string]command{
	"ping": {
		usage: "ping",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			if err := newArgs("ping", 0).parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.Ping(ctx))
		},
	},
	"keys": {
		usage: "keys",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			if err := newArgs("keys", 0).parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.GetKeys(ctx))
		},
	},
	"values": {
		usage: "values <key>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("values", 1, "key")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.GetValues(ctx, a.get("key")))
		},
	},
	"products": {
		usage: "products <key> [value]",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("products", 1, "key", "value")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.GetProducts(ctx, a.get("key"), a.get("value")))
		},
	},
	"stats": {
		usage: "stats [key] [value]",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("stats", 0, "key", "value")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.GetProductStats(ctx, a.get("key"), a.get("value")))
		},
	},
	"product": {
		usage: "product <barcode>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("product", 1, "barcode")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.GetProduct(ctx, a.get("barcode")))
		},
	},
	"tag": {
		usage: "tag <barcode> <key>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("tag", 2, "barcode", "key")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.GetProductTag(ctx, a.get("barcode"), a.get("key")))
		},
	},
	"versions": {
		usage: "versions <barcode> <key>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("versions", 2, "barcode", "key")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.GetTagVersions(ctx, a.get("barcode"), a.get("key")))
		},
	},
	"add": {
		usage: "add [-comment text] <barcode> <key> <value>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a, comment, err := tagArgs("add", raw, "value")
			if err != nil {
				return nil, err
			}
			return mutated(env.folksonomy.AddTagResult(ctx, folksonomy.Tag{
				Product: a.get("barcode"),
				Key:     a.get("key"),
				Value:   a.get("value"),
				Comment: *comment,
			}))
		},
	},
	"put": {
		usage: "put [-comment text] <barcode> <key> <value> <version>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a, comment, err := tagArgs("put", raw, "value", "version")
			if err != nil {
				return nil, err
			}
			version := a.number("version")
			if err := a.check(); err != nil {
				return nil, err
			}
			return mutated(env.folksonomy.PutTagResult(ctx, folksonomy.Tag{
				Product: a.get("barcode"),
				Key:     a.get("key"),
				Value:   a.get("value"),
				Version: version,
				Comment: *comment,
			}))
		},
	},
	"remove": {
		usage: "remove <barcode> <key> <version>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("remove", 3, "barcode", "key", "version")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			version := a.number("version")
			if err := a.check(); err != nil {
				return nil, err
			}
			return mutated(env.folksonomy.RemoveTagResult(ctx, folksonomy.Tag{
				Product: a.get("barcode"),
				Key:     a.get("key"),
				Version: version,
			}))
		},
	},
	"login": {
		usage: "login <username> <password>",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			a := newArgs("login", 2, "username", "password")
			if err := a.parse(raw); err != nil {
				return nil, err
			}
			return unwrap(env.folksonomy.Login(ctx, a.get("username"), a.get("password")))
		},
	},
}
