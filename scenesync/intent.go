package scenesync

import (
	"fmt"

	"github.com/achilleasa/polaris-link/host"
)

// Intent is the engine-facing meaning of a change notification.
type Intent uint8

// Intents are listed in the order updates are applied within a frame.
const (
	IntentIgnore Intent = iota
	IntentPass
	IntentCamera
	IntentCameraTransform
	IntentMaterial
	IntentMesh
	IntentHair
	IntentPointCloud
	IntentVolume
	IntentLight
	IntentTransform
	IntentVisibility
	IntentLightLinking
	IntentAmbient

	numIntents
)

var intentNames = [numIntents]string{
	"ignore", "pass", "camera", "camera-transform", "material", "mesh",
	"hair", "pointcloud", "volume", "light", "transform", "visibility",
	"light-linking", "ambient",
}

func (i Intent) String() string {
	if i < numIntents {
		return intentNames[i]
	}
	return fmt.Sprintf("intent(%d)", i)
}

// An Update is a classified notification routed to a single updater.
type Update struct {
	Intent Intent

	// The entity to refresh: the owning object for sub-object changes or
	// the owning material for shader changes.
	Target host.Entity

	// Set for material notifications that (re)assign rather than edit.
	Assignment bool
}

func (u Update) targetID() host.ObjectID {
	if u.Target == nil {
		return 0
	}
	return u.Target.ID()
}

// How a notification kind is resolved to an intent.
type rule uint8

const (
	// The kind maps to a fixed intent.
	ruleFixed rule = iota

	// Only global transforms matter; cameras get their own intent.
	ruleTransform

	// The intent depends on the type tag of the owning object.
	ruleOwnerType

	// Material edits and assignments.
	ruleMaterial

	// Walk to the owning material; ignored unless it is a network root.
	ruleShader
)

type kindRule struct {
	rule   rule
	intent Intent
}

// Classification table indexed by notification kind.
var kindRules = [...]kindRule{
	host.KindUnknown:         {ruleFixed, IntentIgnore},
	host.KindObject:          {ruleOwnerType, IntentIgnore},
	host.KindCamera:          {ruleFixed, IntentCamera},
	host.KindLight:           {ruleFixed, IntentLight},
	host.KindKinematics:      {ruleTransform, IntentTransform},
	host.KindPrimitive:       {ruleOwnerType, IntentIgnore},
	host.KindCluster:         {ruleOwnerType, IntentIgnore},
	host.KindClusterProperty: {ruleOwnerType, IntentIgnore},
	host.KindProperty:        {ruleOwnerType, IntentIgnore},
	host.KindMaterial:        {ruleMaterial, IntentMaterial},
	host.KindShader:          {ruleShader, IntentMaterial},
	host.KindTexture:         {ruleShader, IntentMaterial},
	host.KindVisibility:      {ruleFixed, IntentVisibility},
	host.KindPass:            {ruleFixed, IntentPass},
	host.KindPassProperty:    {ruleFixed, IntentPass},
	host.KindAmbience:        {ruleFixed, IntentAmbient},
	host.KindLightLinking:    {ruleFixed, IntentLightLinking},
}

// Intent for geometry changes indexed by the owning object type.
var typeIntents = [...]Intent{
	host.TypeNone:       IntentIgnore,
	host.TypeMesh:       IntentMesh,
	host.TypeHair:       IntentHair,
	host.TypePointCloud: IntentPointCloud,
	host.TypeStrands:    IntentPointCloud,
	host.TypeVolume:     IntentVolume,
	host.TypeLight:      IntentLight,
	host.TypeCamera:     IntentCamera,
	host.TypeNull:       IntentIgnore,
	host.TypeInstance:   IntentTransform,
}

// Classify maps a notification to an update. Notifications that cannot be
// resolved are classified as IntentIgnore.
func Classify(n host.Notification) Update {
	ignore := Update{Intent: IntentIgnore, Target: n.Entity}
	if n.Entity == nil || int(n.Kind) >= len(kindRules) {
		return ignore
	}

	kr := kindRules[n.Kind]
	switch kr.rule {
	case ruleTransform:
		if n.SubKind != host.GlobalTransform {
			return ignore
		}
		owner, err := host.OwningObject(n.Entity)
		if err != nil {
			return ignore
		}
		if owner.Type() == host.TypeCamera || owner.Kind() == host.KindCamera {
			return Update{Intent: IntentCameraTransform, Target: owner}
		}
		return Update{Intent: IntentTransform, Target: owner}
	case ruleOwnerType:
		owner, err := host.OwningObject(n.Entity)
		if err != nil || int(owner.Type()) >= len(typeIntents) {
			return ignore
		}
		return Update{Intent: typeIntents[owner.Type()], Target: owner}
	case ruleMaterial:
		mat, err := host.AsMaterial(n.Entity)
		if err != nil {
			return ignore
		}
		return Update{Intent: IntentMaterial, Target: mat, Assignment: n.SubKind == host.Assignment}
	case ruleShader:
		mat, err := host.OwningMaterial(n.Entity)
		if err != nil || !mat.IsRoot() {
			return ignore
		}
		return Update{Intent: IntentMaterial, Target: mat}
	}

	// Fixed intents target the owning object when there is one, e.g. a
	// visibility property is refreshed on its object.
	if kr.intent == IntentVisibility {
		if owner, err := host.OwningObject(n.Entity); err == nil {
			return Update{Intent: kr.intent, Target: owner}
		}
	}
	return Update{Intent: kr.intent, Target: n.Entity}
}
