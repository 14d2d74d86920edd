package scenesync

import (
	"strings"
	"testing"

	"github.com/achilleasa/polaris-link/host"
)

func TestClassify(t *testing.T) {
	fx := newFixture()
	pass := &fakeEntity{id: 20, name: "beauty", kind: host.KindPass}
	vis := &fakeEntity{id: 21, name: "cube.visibility", kind: host.KindVisibility, parent: fx.mesh}
	strands := &fakeEntity{id: 22, name: "grass", kind: host.KindObject, typ: host.TypeStrands}
	volume := &fakeEntity{id: 23, name: "smoke", kind: host.KindObject, typ: host.TypeVolume}
	volProp := &fakeEntity{id: 24, name: "smoke.density", kind: host.KindProperty, parent: volume}
	null := &fakeEntity{id: 25, name: "null", kind: host.KindObject, typ: host.TypeNull}
	orphanShader := &fakeEntity{id: 26, name: "orphan", kind: host.KindShader}

	type spec struct {
		n          host.Notification
		expIntent  Intent
		expTarget  host.ObjectID
		assignment bool
	}
	specs := []spec{
		{notify(fx.meshKine, host.GlobalTransform), IntentTransform, 1, false},
		{notify(fx.meshKine, host.LocalTransform), IntentIgnore, 2, false},
		{notify(fx.cameraKine, host.GlobalTransform), IntentCameraTransform, 6, false},
		{notify(fx.camera, host.SubNone), IntentCamera, 6, false},
		{notify(fx.meshCluster, host.SubNone), IntentMesh, 1, false},
		{notify(fx.hairPrim, host.SubNone), IntentHair, 4, false},
		{notify(fx.mesh, host.SubNone), IntentMesh, 1, false},
		{notify(strands, host.SubNone), IntentPointCloud, 22, false},
		{notify(volProp, host.SubNone), IntentVolume, 23, false},
		{notify(null, host.SubNone), IntentIgnore, 25, false},
		{notify(fx.light, host.SubNone), IntentLight, 8, false},
		{notify(fx.material, host.SubNone), IntentMaterial, 9, false},
		{notify(fx.material, host.Assignment), IntentMaterial, 9, true},
		{notify(fx.shader, host.SubNone), IntentMaterial, 9, false},
		{notify(fx.texture, host.SubNone), IntentMaterial, 9, false},
		{notify(fx.libShader, host.SubNone), IntentIgnore, 13, false},
		{notify(orphanShader, host.SubNone), IntentIgnore, 26, false},
		{notify(vis, host.SubNone), IntentVisibility, 1, false},
		{notify(pass, host.SubNone), IntentPass, 20, false},
		{host.Notification{Entity: pass, Kind: host.KindPassProperty}, IntentPass, 20, false},
		{host.Notification{Entity: pass, Kind: host.KindAmbience}, IntentAmbient, 20, false},
		{host.Notification{Entity: fx.light, Kind: host.KindLightLinking}, IntentLightLinking, 8, false},
		{host.Notification{Entity: fx.mesh, Kind: host.KindUnknown}, IntentIgnore, 1, false},
		{host.Notification{Entity: fx.mesh, Kind: host.Kind(250)}, IntentIgnore, 1, false},
		{host.Notification{Kind: host.KindObject}, IntentIgnore, 0, false},
	}

	for index, s := range specs {
		u := Classify(s.n)
		if u.Intent != s.expIntent || u.targetID() != s.expTarget || u.Assignment != s.assignment {
			t.Fatalf("[spec %d] expected (%s, %d, %t); got (%s, %d, %t)", index, s.expIntent, s.expTarget, s.assignment, u.Intent, u.targetID(), u.Assignment)
		}
	}
}

func TestClassificationTablesAreExhaustive(t *testing.T) {
	kinds := 0
	for k := host.Kind(0); !strings.HasPrefix(k.String(), "kind("); k++ {
		kinds++
	}
	if len(kindRules) != kinds {
		t.Fatalf("expected a rule for each of the %d entity kinds; got %d", kinds, len(kindRules))
	}

	types := 0
	for typ := host.ObjectType(0); !strings.HasPrefix(typ.String(), "type("); typ++ {
		types++
	}
	if len(typeIntents) != types {
		t.Fatalf("expected an intent for each of the %d object types; got %d", types, len(typeIntents))
	}

	for k, kr := range kindRules {
		if kr.rule == ruleFixed && kr.intent == IntentIgnore && host.Kind(k) != host.KindUnknown {
			t.Fatalf("kind %s is unconditionally ignored", host.Kind(k))
		}
	}
}
