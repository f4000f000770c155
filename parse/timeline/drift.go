package timeline

import "github.com/riftlabs/ladder-pipeline/schemadrift"

// eventSchema names the keys a discriminated timeline event of one type is
// allowed and required to carry. required is a subset of allowed.
type eventSchema struct {
	required map[string]bool
	allowed  map[string]bool
}

func schema(required, optional []string) eventSchema {
	req := make(map[string]bool, len(required))
	allowed := make(map[string]bool, len(required)+len(optional))
	for _, k := range required {
		req[k] = true
		allowed[k] = true
	}
	for _, k := range optional {
		allowed[k] = true
	}
	return eventSchema{required: req, allowed: allowed}
}

// knownEventSchemas mirrors the upstream known_event_models table for the
// six rich event types this parser projects into dedicated rows. Every
// entry includes "type" and "timestamp", present on every timeline event.
var knownEventSchemas = map[string]eventSchema{
	"BUILDING_KILL": schema(
		[]string{"type", "timestamp", "bounty", "buildingType", "killerId", "laneType", "position", "teamId"},
		[]string{"towerType", "assistingParticipantIds"},
	),
	"CHAMPION_KILL": schema(
		[]string{"type", "timestamp", "killerId", "victimId", "bounty", "killStreakLength", "shutdownBounty", "position"},
		[]string{
			"assistingParticipantIds",
			"victimDamageDealt", "victimDamageReceived",
			"victimTeamfightDamageDealt", "victimTeamfightDamageReceived",
		},
	),
	"CHAMPION_SPECIAL_KILL": schema(
		[]string{"type", "timestamp", "killType", "killerId", "position"},
		[]string{"multiKillLength", "assistingParticipantIds"},
	),
	"DRAGON_SOUL_GIVEN": schema(
		[]string{"type", "timestamp", "name", "teamId"},
		nil,
	),
	"ELITE_MONSTER_KILL": schema(
		[]string{"type", "timestamp", "bounty", "killerId", "killerTeamId", "monsterType", "position"},
		[]string{"assistingParticipantIds", "monsterSubType"},
	),
	"TURRET_PLATE_DESTROYED": schema(
		[]string{"type", "timestamp", "killerId", "laneType", "position", "teamId"},
		nil,
	),
}

// scanDrift mirrors the upstream timeline() drift check: a structural pass
// over info.frames (missing/invalid frames, frame/event-not-object,
// events-not-list), followed by a per-event-type pass that resolves each
// event's "type" discriminator against knownEventSchemas/rareEventTypes and
// flags unknown event types and, for the six rich types this parser has a
// concrete schema for, unexpected or missing keys.
func scanDrift(decoded any) map[string][]schemadrift.Issue {
	issues := map[string][]schemadrift.Issue{}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return issues
	}
	info, ok := obj["info"].(map[string]any)
	if !ok {
		issues["events"] = []schemadrift.Issue{{
			SchemaKey: "events", Path: "$.info", ErrorType: "missing_or_invalid_frames",
			Message: "expected '$.info.frames' to be a list",
		}}
		return issues
	}
	frames, ok := info["frames"].([]any)
	if !ok {
		issues["events"] = []schemadrift.Issue{{
			SchemaKey: "events", Path: "$.info.frames", ErrorType: "missing_or_invalid_frames",
			Message: "expected '$.info.frames' to be a list",
		}}
		return issues
	}

	var list []schemadrift.Issue
	seen := map[string]bool{}
	add := func(key string, issue schemadrift.Issue) {
		if seen[key] {
			return
		}
		seen[key] = true
		list = append(list, issue)
	}

	for frameIdx, frame := range frames {
		framePath := indexedPath("$.info.frames", frameIdx)
		frameObj, ok := frame.(map[string]any)
		if !ok {
			add("frame_not_object", schemadrift.Issue{
				SchemaKey: "events", Path: framePath, ErrorType: "frame_not_object",
				Message: "frame at '" + framePath + "' is not an object",
			})
			continue
		}
		events, ok := frameObj["events"].([]any)
		if !ok {
			add("events_not_list", schemadrift.Issue{
				SchemaKey: "events", Path: framePath + ".events", ErrorType: "events_not_list",
				Message: "expected list at '" + framePath + ".events'",
			})
			continue
		}
		for eventIdx, event := range events {
			eventPath := indexedPath(framePath+".events", eventIdx)
			eventObj, ok := event.(map[string]any)
			if !ok {
				add("event_not_object", schemadrift.Issue{
					SchemaKey: "events", Path: eventPath, ErrorType: "event_not_object",
					Message: "event at '" + eventPath + "' is not an object",
				})
				continue
			}

			eventType, ok := eventObj["type"].(string)
			if !ok {
				add("missing_event_type", schemadrift.Issue{
					SchemaKey: "events", Path: eventPath, ErrorType: "missing_event_type",
					Message: "event at '" + eventPath + "' is missing string key 'type'",
				})
				continue
			}

			sch, known := knownEventSchemas[eventType]
			if !known {
				if rareEventTypes[eventType] {
					continue
				}
				add("unknown_event_type:"+eventType, schemadrift.Issue{
					SchemaKey: "events", Path: eventPath + ".type", ErrorType: "unknown_event_type",
					Message: "unknown event type '" + eventType + "' at '" + eventPath + "'",
				})
				continue
			}

			for key := range eventObj {
				if sch.allowed[key] {
					continue
				}
				add(eventType+":unexpected_key:"+key, schemadrift.Issue{
					SchemaKey: "events", Path: eventPath + "." + key, ErrorType: "unexpected_key",
					Message: "unexpected key '" + key + "' for event type '" + eventType + "'",
				})
			}
			for key := range sch.required {
				if _, present := eventObj[key]; present {
					continue
				}
				add(eventType+":missing_required_key:"+key, schemadrift.Issue{
					SchemaKey: "events", Path: eventPath, ErrorType: "missing_required_key",
					Message: "missing required key '" + key + "' for event type '" + eventType + "'",
				})
			}
		}
	}
	if len(list) > 0 {
		issues["events"] = list
	}
	return issues
}

func indexedPath(parent string, idx int) string {
	return parent + "[" + itoa(idx) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
