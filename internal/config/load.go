package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/tagpull/tagpull/internal/errors"
)

// Load reads a config file (format chosen by extension), merges it over the
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".toml":
		format = "toml"
	case ".json":
		format = "json"
	default:
		return nil, errors.Configurationf("unsupported config file type: %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(format)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Configurationf("read config %s", path).WithCause(err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, errors.Configurationf("parse config %s", path).WithCause(err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills per-subset zero values the decoder cannot default.
func (c *Config) applyDefaults() {
	for i := range c.Subsets {
		if c.Subsets[i].Limit == 0 {
			c.Subsets[i].Limit = defaultSubsetLimit
		}
	}
}

// Validate checks structural constraints the schema tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Configuration("invalid config").WithCause(err)
	}

	for i := range c.Subsets {
		s := &c.Subsets[i]
		sources := 0
		if s.Query != "" {
			sources++
		}
		if s.QueryListFile != "" {
			sources++
		}
		if s.PostURLListFile != "" {
			sources++
		}
		switch {
		case sources == 0:
			return errors.Configurationf("subset %d: one of query, query_list_file, post_url_list_file is required", i)
		case sources > 1:
			return errors.Configurationf("subset %d: query, query_list_file, post_url_list_file are mutually exclusive", i)
		}
	}
	return nil
}

// decodeHooks builds the mapstructure hook chain: boolean-or-object fields,
// string-or-list token operands, and bare-string sort orders.
func decodeHooks() mapstructure.DecodeHookFunc {
	var all mapstructure.DecodeHookFunc
	all = mapstructure.ComposeDecodeHookFunc(
		optionHook[CaptionConfig](&all, DefaultCaption),
		optionHook[RatingTagConfig](&all, DefaultRatingTag),
		optionHook[RuleSet](&all, func() RuleSet { return RuleSet{} }),
		optionHook[SearchFilter](&all, func() SearchFilter { return SearchFilter{} }),
		optionHook[ResultFilter](&all, func() ResultFilter { return ResultFilter{} }),
		optionHook[CacheConfig](&all, func() CacheConfig { return CacheConfig{SearchResult: true} }),
		tokenSourceHook(),
		sortOrderHook(),
		stringToSliceHook(),
	)
	return all
}

// optionHook decodes a bool-or-object field into Option[T]. Explicit objects
// are decoded over base() so partially specified objects keep their defaults.
// The full hook chain is threaded through so nested fields decode the same
// way they would at the top level.
func optionHook[T any](all *mapstructure.DecodeHookFunc, base func() T) mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(Option[T]{})
	return func(from, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}

		if b, ok := data.(bool); ok {
			if b {
				return Defaulted[T](), nil
			}
			return Disabled[T](), nil
		}

		val := base()
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:     &val,
			DecodeHook: *all,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(data); err != nil {
			return nil, err
		}
		return Explicit(val), nil
	}
}

// tokenSourceHook decodes a string or string list into a TokenSource.
func tokenSourceHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(TokenSource{})
	return func(from, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return TokenRef(v), nil
		case []string:
			return Tokens(v...), nil
		case []any:
			tokens := make([]string, 0, len(v))
			for _, e := range v {
				s, ok := e.(string)
				if !ok {
					s = fmt.Sprint(e)
				}
				tokens = append(tokens, s)
			}
			return Tokens(tokens...), nil
		default:
			return data, nil
		}
	}
}

// sortOrderHook lets order: be a bare string naming just the sort type.
func sortOrderHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(SortOrder{})
	ptrTarget := reflect.PointerTo(target)
	return func(from, to reflect.Type, data any) (any, error) {
		if to != target && to != ptrTarget {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		order := SortOrder{Type: s}
		if to == ptrTarget {
			return &order, nil
		}
		return order, nil
	}
}

// stringToSliceHook lets single strings stand in for one-element string lists
// (rating include/exclude, filetypes).
func stringToSliceHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf([]string{})
	return func(from, to reflect.Type, data any) (any, error) {
		if to != target || from.Kind() != reflect.String {
			return data, nil
		}
		return []string{data.(string)}, nil
	}
}
