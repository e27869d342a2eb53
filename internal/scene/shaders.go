package scene

// Surface shader: metallic-roughness shading under directional lights and an
// ambient term, with reflections from the equirectangular environment.
// texture1 is the sharp panorama and texture2 its blurred copy; rough
// surfaces lean on the blurred one. Output is ACES tone mapped. Counts and
// flags are floats because uniforms are uploaded as float data.
const (
	surfaceVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	surfaceFS = `#version 330
#define MAX_LIGHTS 4
in vec3 fragPosition;
in vec3 fragNormal;
out vec4 finalColor;

uniform sampler2D texture1;
uniform sampler2D texture2;
uniform vec3 baseColor;
uniform float roughness;
uniform float metalness;
uniform vec3 viewPos;
uniform float lightCount;
uniform vec3 lightDir[MAX_LIGHTS];
uniform vec3 lightColor[MAX_LIGHTS];
uniform vec3 ambient;
uniform float hasEnv;
uniform float exposure;

const float PI = 3.14159265359;

vec2 equirect(vec3 d) {
  float lon = atan(d.z, d.x);
  float lat = asin(clamp(d.y, -1.0, 1.0));
  return vec2(lon / (2.0 * PI) + 0.5, 0.5 - lat / PI);
}

float ggx(float NdotH, float a) {
  float a2 = a * a;
  float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
  return a2 / (PI * d * d);
}

float smith(float NdotV, float NdotL, float r) {
  float k = (r + 1.0) * (r + 1.0) / 8.0;
  float gv = NdotV / (NdotV * (1.0 - k) + k);
  float gl = NdotL / (NdotL * (1.0 - k) + k);
  return gv * gl;
}

vec3 fresnel(float cosT, vec3 F0) {
  return F0 + (1.0 - F0) * pow(1.0 - cosT, 5.0);
}

vec3 aces(vec3 x) {
  return clamp((x * (2.51 * x + 0.03)) / (x * (2.43 * x + 0.59) + 0.14), 0.0, 1.0);
}

void main() {
  vec3 N = normalize(fragNormal);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotV = max(dot(N, V), 1e-4);
  float r = clamp(roughness, 0.04, 1.0);
  vec3 F0 = mix(vec3(0.04), baseColor, metalness);
  vec3 diffuse = baseColor * (1.0 - metalness);

  vec3 color = vec3(0.0);
  for (int i = 0; i < MAX_LIGHTS; i++) {
    if (float(i) >= lightCount) break;
    vec3 L = normalize(lightDir[i]);
    vec3 H = normalize(V + L);
    float NdotL = max(dot(N, L), 0.0);
    if (NdotL <= 0.0) continue;
    vec3 F = fresnel(max(dot(H, V), 0.0), F0);
    float D = ggx(max(dot(N, H), 0.0), r * r);
    float G = smith(NdotV, NdotL, r);
    vec3 spec = D * G * F / (4.0 * NdotV * NdotL + 1e-4);
    vec3 kd = (1.0 - F) * (1.0 - metalness);
    color += (kd * baseColor / PI + spec) * lightColor[i] * NdotL;
  }

  vec3 F = fresnel(NdotV, F0);
  if (hasEnv > 0.5) {
    vec3 R = reflect(-V, N);
    vec3 sharp = texture(texture1, equirect(R)).rgb;
    vec3 blurred = texture(texture2, equirect(R)).rgb;
    vec3 irradiance = texture(texture2, equirect(N)).rgb;
    vec3 prefiltered = mix(sharp, blurred, smoothstep(0.0, 0.6, r));
    color += diffuse * irradiance * ambient + prefiltered * F * (1.0 - 0.5 * r);
  } else {
    color += diffuse * ambient * 0.3 + F * ambient * 0.1;
  }

  color = aces(color * exposure);
  finalColor = vec4(pow(color, vec3(1.0 / 2.2)), 1.0);
}
`
)

// Background panorama: samples the equirectangular texture by view direction.
const (
	skyboxVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	skyboxFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
uniform float exposure;
vec3 aces(vec3 x) {
  return clamp((x * (2.51 * x + 0.03)) / (x * (2.43 * x + 0.59) + 0.14), 0.0, 1.0);
}
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  vec3 c = aces(texture(skybox, vec2(u, v)).rgb * exposure);
  finalColor = vec4(pow(c, vec3(1.0 / 2.2)), 1.0);
}
`
)
