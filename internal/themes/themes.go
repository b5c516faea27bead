package themes

import (
	"fmt"
	"sort"
)

// Key 主题枚举键，图库记录中只允许存这里列出的值
type Key string

const (
	KeyClassic  Key = "classic"
	KeyMidnight Key = "midnight"
	KeyBlush    Key = "blush"
	KeyForest   Key = "forest"
	KeyMono     Key = "mono"
)

// Schema 每个主题必须给全的外观字段
type Schema struct {
	DisplayName     string `json:"display_name"`
	BackgroundColor string `json:"background_color"`
	AccentColor     string `json:"accent_color"`
	TextColor       string `json:"text_color"`
	HeadingFont     string `json:"heading_font"`
	BodyFont        string `json:"body_font"`
}

// registry 是键集合到 Schema 的全映射，启动时经 ValidateRegistry 校验
var registry = map[Key]Schema{
	KeyClassic: {
		DisplayName:     "Classic",
		BackgroundColor: "#ffffff",
		AccentColor:     "#c9a227",
		TextColor:       "#1a1a1a",
		HeadingFont:     "Playfair Display",
		BodyFont:        "Lato",
	},
	KeyMidnight: {
		DisplayName:     "Midnight",
		BackgroundColor: "#101418",
		AccentColor:     "#7aa2f7",
		TextColor:       "#e6e6e6",
		HeadingFont:     "Cormorant Garamond",
		BodyFont:        "Inter",
	},
	KeyBlush: {
		DisplayName:     "Blush",
		BackgroundColor: "#fdf4f5",
		AccentColor:     "#d47c8c",
		TextColor:       "#3d2b2e",
		HeadingFont:     "Great Vibes",
		BodyFont:        "Nunito Sans",
	},
	KeyForest: {
		DisplayName:     "Forest",
		BackgroundColor: "#f4f7f2",
		AccentColor:     "#3e6b48",
		TextColor:       "#22301f",
		HeadingFont:     "Libre Baskerville",
		BodyFont:        "Source Sans Pro",
	},
	KeyMono: {
		DisplayName:     "Mono",
		BackgroundColor: "#fafafa",
		AccentColor:     "#000000",
		TextColor:       "#111111",
		HeadingFont:     "Space Grotesk",
		BodyFont:        "IBM Plex Sans",
	},
}

// allKeys 固定的合法键清单，与 registry 的键集合必须一致
var allKeys = []Key{KeyClassic, KeyMidnight, KeyBlush, KeyForest, KeyMono}

// Lookup 按键取主题，未知键返回 ok=false，调用方不应凭空信任字符串
func Lookup(key string) (Schema, bool) {
	schema, ok := registry[Key(key)]
	return schema, ok
}

// IsValidKey 判断字符串是否为合法主题键
func IsValidKey(key string) bool {
	_, ok := registry[Key(key)]
	return ok
}

// DefaultKey 新图库的缺省主题
func DefaultKey() Key {
	return KeyClassic
}

// Keys 返回排序后的全部合法键
func Keys() []Key {
	keys := make([]Key, len(allKeys))
	copy(keys, allKeys)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// All 返回键到 Schema 的副本，供接口层输出主题清单
func All() map[Key]Schema {
	out := make(map[Key]Schema, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}

// ValidateRegistry 启动时校验主题表的完整性：
// 枚举清单与映射键集合一致，且每个主题的所有字段非空
func ValidateRegistry() error {
	if len(allKeys) != len(registry) {
		return fmt.Errorf("主题枚举清单与映射不一致: %d 键 vs %d 项", len(allKeys), len(registry))
	}
	for _, key := range allKeys {
		schema, ok := registry[key]
		if !ok {
			return fmt.Errorf("主题 %q 缺少映射项", key)
		}
		fields := map[string]string{
			"display_name":     schema.DisplayName,
			"background_color": schema.BackgroundColor,
			"accent_color":     schema.AccentColor,
			"text_color":       schema.TextColor,
			"heading_font":     schema.HeadingFont,
			"body_font":        schema.BodyFont,
		}
		for name, value := range fields {
			if value == "" {
				return fmt.Errorf("主题 %q 的字段 %s 为空", key, name)
			}
		}
	}
	return nil
}
