package render

// Map shaders. The vertex stage forwards the region identifier flat to
// the fragment stage, which resolves per-region attributes from the
// lookup textures by texel arithmetic on the id alone.

const mapVertexShader = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in uint aRegionID;
layout (location = 2) in vec2 aUV;

flat out uint vRegionID;
out vec2 vUV;

uniform mat4 uViewProjection;

void main() {
	gl_Position = uViewProjection * vec4(aPos, 0.0, 1.0);
	vRegionID = aRegionID;
	vUV = aUV;
}
` + "\x00"

const mapFragmentShader = `
#version 410 core

flat in uint vRegionID;
in vec2 vUV;

out vec4 FragColor;

uniform sampler2D uRegionColors;
uniform sampler2D uRegionMeta;
uniform int uRenderMode;      // 0 political, 1 terrain, 2+ other overlays
uniform uint uSelectedID;
uniform uint uHoveredID;
uniform float uGlowTime;

// Fetch the attribute texel of a region: id -> (id mod w, id div w).
vec4 regionTexel(sampler2D tex, uint id) {
	int w = textureSize(tex, 0).x;
	ivec2 tc = ivec2(int(id) % w, int(id) / w);
	return texelFetch(tex, tc, 0);
}

// Terrain classification codes are banded into decades.
vec3 terrainColor(float code) {
	if (code < 5.0)  return vec3(0.45, 0.45, 0.45); // unknown
	if (code < 20.0) return vec3(0.55, 0.70, 0.35); // plains / hills
	if (code < 30.0) return vec3(0.20, 0.45, 0.20); // forest
	if (code < 40.0) return vec3(0.50, 0.45, 0.40); // mountains
	if (code < 50.0) return vec3(0.85, 0.75, 0.45); // desert
	if (code < 60.0) return vec3(0.40, 0.60, 0.75); // coast
	if (code < 70.0) return vec3(0.35, 0.55, 0.50); // wetland
	return vec3(0.60, 0.55, 0.45);                  // highlands
}

void main() {
	vec4 color = regionTexel(uRegionColors, vRegionID);

	if (uRenderMode == 1) {
		float code = regionTexel(uRegionMeta, vRegionID).r * 255.0;
		color = vec4(terrainColor(code), 1.0);
	}

	// Zero-filled texel: region has no packed attributes, render the
	// neutral fallback rather than a hole.
	if (color.a == 0.0) {
		color = vec4(0.45, 0.45, 0.45, 1.0);
	}

	if (vRegionID == uSelectedID) {
		float glow = 0.25 + 0.15 * sin(uGlowTime * 4.0);
		color.rgb = mix(color.rgb, vec3(1.0, 0.9, 0.3), glow);
	} else if (vRegionID == uHoveredID) {
		color.rgb = mix(color.rgb, vec3(1.0), 0.15);
	}

	FragColor = color;
}
` + "\x00"
