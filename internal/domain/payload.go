package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PayloadKind names the variant a change event payload decoded into.
type PayloadKind string

const (
	PayloadUnknown       PayloadKind = "unknown"
	PayloadListTargets   PayloadKind = "list_targets"
	PayloadScriptKeyed   PayloadKind = "script_keyed"
	PayloadJudgmentTitle PayloadKind = "judgment_title"
)

func (k PayloadKind) String() string { return string(k) }

// Payload is the decoded shape of a change event payload. The set of
// implementations is closed: ListTargets, ScriptKeyedTargets, JudgmentTitle
// and UnknownPayload.
type Payload interface {
	Kind() PayloadKind
	isPayload()
}

// TargetName is one named target inside a list-of-targets payload.
type TargetName struct {
	NameEN string
	NameZH string
}

// ListTargets is a payload carrying a list of {name_en, name_zh} targets.
type ListTargets struct {
	Targets []TargetName
}

// ScriptKeyedTargets is a payload carrying separate English and Chinese name lists.
type ScriptKeyedTargets struct {
	English []string
	Chinese []string
}

// JudgmentTitle is a judgment payload identified only by its case title.
type JudgmentTitle struct {
	Title string
}

// UnknownPayload is any payload the engine cannot extract names from.
type UnknownPayload struct {
	Reason string
}

func (ListTargets) Kind() PayloadKind        { return PayloadListTargets }
func (ScriptKeyedTargets) Kind() PayloadKind { return PayloadScriptKeyed }
func (JudgmentTitle) Kind() PayloadKind      { return PayloadJudgmentTitle }
func (UnknownPayload) Kind() PayloadKind     { return PayloadUnknown }

func (ListTargets) isPayload()        {}
func (ScriptKeyedTargets) isPayload() {}
func (JudgmentTitle) isPayload()      {}
func (UnknownPayload) isPayload()     {}

var (
	nullJSON = []byte("null")

	englishNameKeys = []string{"name_en", "nameEnglish", "nameEN", "nameEn"}
	chineseNameKeys = []string{"name_zh", "nameChinese", "nameZH", "nameZh"}
	englishListKeys = []string{"en", "english"}
	chineseListKeys = []string{"zh", "chinese"}
	displayNameKeys = []string{"ceName", "name"}
)

// ParsePayload decodes a raw change event payload into one of the Payload
// variants. It never fails: shapes it does not recognize, including null and
// malformed JSON, decode into UnknownPayload.
//
// Recognized shapes:
//
//	[{"name_en": .., "name_zh": ..}, ...]
//	{"target": [{"name_en": .., "name_zh": ..}, ...]}   (or a single target object)
//	{"target": {"en": [{"ceName": ..}], "zh": [{"ceName": ..}]}}
//	{"english": [..], "chinese": [..]}
//	{"title": ".."}
func ParsePayload(raw json.RawMessage) Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullJSON) {
		return UnknownPayload{Reason: "empty payload"}
	}

	switch raw[0] {
	case '[':
		return parseTargets(raw)
	case '{':
	default:
		return UnknownPayload{Reason: "payload is not an object or array"}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return UnknownPayload{Reason: "malformed object"}
	}

	var fromTarget Payload
	if target, ok := doc["target"]; ok {
		fromTarget = parseTargets(target)
		if fromTarget.Kind() != PayloadUnknown {
			return fromTarget
		}
	}

	if title, ok := doc["title"]; ok {
		var s string
		if err := json.Unmarshal(title, &s); err == nil && strings.TrimSpace(s) != "" {
			return JudgmentTitle{Title: s}
		}
		if fromTarget == nil {
			return UnknownPayload{Reason: "title is not a non-empty string"}
		}
	}

	if fromTarget != nil {
		return fromTarget
	}

	if hasNameKey(doc) || hasListKey(doc) {
		return parseTargets(raw)
	}

	return UnknownPayload{Reason: "unrecognized shape"}
}

// parseTargets decodes a target value: an array of target objects or a
// single target object.
func parseTargets(raw json.RawMessage) Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullJSON) {
		return UnknownPayload{Reason: "null target"}
	}

	var objects []map[string]json.RawMessage
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return UnknownPayload{Reason: "malformed target list"}
		}
		for _, item := range items {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
				continue
			}
			objects = append(objects, obj)
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return UnknownPayload{Reason: "malformed target object"}
		}
		objects = append(objects, obj)
	default:
		return UnknownPayload{Reason: "target is not an object or array"}
	}

	var (
		list  ListTargets
		keyed ScriptKeyedTargets
		isKey bool
	)
	for _, obj := range objects {
		if hasListKey(obj) {
			isKey = true
			keyed.English = append(keyed.English, displayNames(obj, englishListKeys)...)
			keyed.Chinese = append(keyed.Chinese, displayNames(obj, chineseListKeys)...)
			continue
		}
		en := firstString(obj, englishNameKeys)
		zh := firstString(obj, chineseNameKeys)
		if en == "" && zh == "" {
			continue
		}
		list.Targets = append(list.Targets, TargetName{NameEN: en, NameZH: zh})
	}

	switch {
	case isKey && len(list.Targets) == 0:
		if len(keyed.English) == 0 && len(keyed.Chinese) == 0 {
			return UnknownPayload{Reason: "no target names"}
		}
		return keyed
	case isKey:
		// Mixed shapes inside one target list fold into single-script targets.
		for _, n := range keyed.English {
			list.Targets = append(list.Targets, TargetName{NameEN: n})
		}
		for _, n := range keyed.Chinese {
			list.Targets = append(list.Targets, TargetName{NameZH: n})
		}
		return list
	case len(list.Targets) > 0:
		return list
	default:
		return UnknownPayload{Reason: "no target names"}
	}
}

func hasNameKey(obj map[string]json.RawMessage) bool {
	return firstString(obj, englishNameKeys) != "" || firstString(obj, chineseNameKeys) != ""
}

// hasListKey reports whether obj carries a script-keyed name list.
func hasListKey(obj map[string]json.RawMessage) bool {
	for _, keys := range [][]string{englishListKeys, chineseListKeys} {
		for _, k := range keys {
			if v, ok := obj[k]; ok {
				v = bytes.TrimSpace(v)
				if len(v) > 0 && v[0] == '[' {
					return true
				}
			}
		}
	}
	return false
}

// firstString returns the first non-blank string value among keys.
func firstString(obj map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			continue
		}
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// displayNames collects names from the first list key present in obj.
// List items are either plain strings or objects exposing a display name.
func displayNames(obj map[string]json.RawMessage, keys []string) []string {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			return nil
		}
		names := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				if strings.TrimSpace(s) != "" {
					names = append(names, s)
				}
				continue
			}
			var entry map[string]json.RawMessage
			if err := json.Unmarshal(item, &entry); err != nil {
				continue
			}
			if name := firstString(entry, displayNameKeys); name != "" {
				names = append(names, name)
			}
		}
		return names
	}
	return nil
}
