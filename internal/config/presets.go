package config

import "sort"

func pin(name, parent string, y float64) *JointConfig {
	return &JointConfig{Name: name, Type: "pin", Parent: parent, LocationInParent: [3]float64{0, y, 0}}
}

// Presets are built-in models. Bodies are deliberately listed out of tree
// order in some of them.
var Presets = map[string]*ModelConfig{
	"pendulum": {
		Name: "pendulum",
		Bodies: []BodyConfig{
			{Name: "bob", Mass: 1.0, MassCenter: [3]float64{0, -1, 0}, Joint: pin("hinge", "ground", 0)},
		},
	},
	"double_pendulum": {
		Name: "double_pendulum",
		Bodies: []BodyConfig{
			{Name: "lower", Mass: 1.0, MassCenter: [3]float64{0, -0.5, 0}, Joint: pin("elbow", "upper", -1)},
			{Name: "upper", Mass: 1.0, MassCenter: [3]float64{0, -0.5, 0}, Joint: pin("shoulder", "ground", 0)},
		},
	},
	"chain": {
		Name: "chain",
		Bodies: []BodyConfig{
			{Name: "link3", Mass: 0.5, Joint: pin("j3", "link2", -0.5)},
			{Name: "link1", Mass: 0.5, Joint: pin("j1", "ground", 0)},
			{Name: "link4", Mass: 0.5, Joint: pin("j4", "link3", -0.5)},
			{Name: "link2", Mass: 0.5, Joint: pin("j2", "link1", -0.5)},
		},
	},
	"leg": {
		Name: "leg",
		Bodies: []BodyConfig{
			{Name: "foot", Mass: 1.25, Joint: &JointConfig{Name: "ankle", Type: "universal", Parent: "tibia", LocationInParent: [3]float64{0, -0.43, 0}}},
			{Name: "tibia", Mass: 3.7, Joint: pin("knee", "femur", -0.4)},
			{Name: "femur", Mass: 9.3, Joint: &JointConfig{Name: "hip", Type: "ball", Parent: "pelvis", LocationInParent: [3]float64{-0.07, -0.07, 0.08}}},
			{Name: "pelvis", Mass: 11.8, Joint: &JointConfig{Name: "ground_pelvis", Type: "free", Parent: "ground"}},
		},
	},
	"humanoid": {
		Name: "humanoid",
		Bodies: []BodyConfig{
			{Name: "pelvis", Mass: 11.8, Joint: &JointConfig{Name: "ground_pelvis", Type: "free", Parent: "ground"}},
			{Name: "hand_r", Mass: 0.5, Joint: &JointConfig{Name: "wrist_r", Type: "universal", Parent: "forearm_r"}},
			{Name: "femur_r", Mass: 9.3, Joint: &JointConfig{Name: "hip_r", Type: "ball", Parent: "pelvis"}},
			{Name: "femur_l", Mass: 9.3, Joint: &JointConfig{Name: "hip_l", Type: "ball", Parent: "pelvis"}},
			{Name: "forearm_r", Mass: 1.2, Joint: pin("elbow_r", "humerus_r", -0.29)},
			{Name: "tibia_r", Mass: 3.7, Joint: pin("knee_r", "femur_r", -0.4)},
			{Name: "tibia_l", Mass: 3.7, Joint: pin("knee_l", "femur_l", -0.4)},
			{Name: "humerus_r", Mass: 2.0, Joint: &JointConfig{Name: "shoulder_r", Type: "ball", Parent: "torso"}},
			{Name: "torso", Mass: 26.8, Joint: &JointConfig{Name: "lumbar", Type: "ball", Parent: "pelvis"}},
			{Name: "head", Mass: 4.5, Joint: &JointConfig{Name: "neck", Type: "weld", Parent: "torso"}},
		},
	},
}

func GetPreset(name string) *ModelConfig {
	mc, ok := Presets[name]
	if !ok {
		return nil
	}
	return mc
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
