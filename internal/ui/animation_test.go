package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var allAnimations = []AnimationType{AnimFeed, AnimPlay, AnimTrain, AnimClean, AnimSleep, AnimMedicine, AnimHatch}

func TestAnimationsHaveContent(t *testing.T) {
	for _, animType := range allAnimations {
		frames := AnimationFrames[animType]
		assert.GreaterOrEqual(t, len(frames), 3, "animation %d", animType)
		for i, frame := range frames {
			assert.NotEmpty(t, frame, "animation %d frame %d", animType, i)
		}
	}
}

func TestGetAnimationFrame(t *testing.T) {
	anim := Animation{Type: AnimFeed, StartTime: time.Now()}
	assert.Equal(t, AnimationFrames[AnimFeed][0], GetAnimationFrame(anim))

	anim.Frame = 100
	assert.Equal(t, AnimationFrames[AnimFeed][AnimationTotalFrames(AnimFeed)-1], GetAnimationFrame(anim))

	assert.Empty(t, GetAnimationFrame(Animation{}))
}

func TestIsAnimationComplete(t *testing.T) {
	tests := []struct {
		name string
		anim Animation
		want bool
	}{
		{"start", Animation{Type: AnimFeed}, false},
		{"middle", Animation{Type: AnimFeed, Frame: 1}, false},
		{"past end", Animation{Type: AnimFeed, Frame: AnimationTotalFrames(AnimFeed)}, true},
		{"no animation", Animation{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAnimationComplete(tt.anim))
		})
	}
}

func TestAnimationFrameDuration(t *testing.T) {
	assert.GreaterOrEqual(t, AnimationFrameDuration, 100*time.Millisecond)
	assert.LessOrEqual(t, AnimationFrameDuration, 500*time.Millisecond)
}
