// Package state merges generated state across turns and layers the user's
// live interactions on top.
package state

import (
	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/spec"
)

// Merge combines the previous turn's state with the new generation's.
// A path present only in old is preserved; where both sides hold plain
// objects the merge recurses; otherwise the value from next wins. Neither input
// is modified.
func Merge(old, next map[string]any) map[string]any {
	return MergeTracked(old, next, nil)
}

// MergeTracked is Merge that records the origin of every merged leaf on
// tracker. A nil tracker records nothing.
func MergeTracked(old, next map[string]any, tracker provenance.Tracker) map[string]any {
	out := mergeObjects("", old, next, tracker)
	if out == nil {
		out = make(map[string]any)
	}
	return out
}

func mergeObjects(prefix string, old, next map[string]any, tracker provenance.Tracker) map[string]any {
	if old == nil && next == nil {
		return nil
	}
	out := make(map[string]any, len(old)+len(next))
	for k, ov := range old {
		if _, ok := next[k]; !ok {
			out[k] = spec.CloneValue(ov)
			track(tracker, prefix+"/"+escape(k), ov, nil, provenance.SourcePrevious)
		}
	}
	for k, nv := range next {
		path := prefix + "/" + escape(k)
		ov, inOld := old[k]
		oldObj, oldIsObj := ov.(map[string]any)
		newObj, newIsObj := nv.(map[string]any)
		if inOld && oldIsObj && newIsObj {
			merged := mergeObjects(path, oldObj, newObj, tracker)
			if merged == nil {
				merged = make(map[string]any)
			}
			out[k] = merged
			continue
		}
		out[k] = spec.CloneValue(nv)
		track(tracker, path, nv, ov, provenance.SourceGenerated)
	}
	return out
}

// track records every leaf of v under path.
func track(tracker provenance.Tracker, path string, v, previous any, source provenance.Source) {
	if tracker == nil || !tracker.Enabled() {
		return
	}
	if obj, ok := v.(map[string]any); ok && len(obj) > 0 {
		prevObj, _ := previous.(map[string]any)
		for k, child := range obj {
			track(tracker, path+"/"+escape(k), child, prevObj[k], source)
		}
		return
	}
	tracker.Track(path, provenance.Provenance{
		Source:        source,
		Value:         spec.CloneValue(v),
		PreviousValue: spec.CloneValue(previous),
	})
}

func escape(seg string) string {
	return spec.JoinPath(seg)[1:]
}
